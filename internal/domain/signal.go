package domain

import (
	"fmt"
	"hash/fnv"
	"math"
)

// FieldUnavailable is the reserved value a radio reports for a measurement
// it could not take. It matches the wire contract, so decoded records carry
// it through unchanged.
const FieldUnavailable int32 = math.MaxInt32

// CellSignal is one immutable LTE signal-quality snapshot. Every field is
// either a measured value or FieldUnavailable. Construction does not
// validate ranges: radios occasionally report out-of-spec numbers and those
// pass through as-is.
type CellSignal struct {
	signalStrength int32
	rsrp           int32
	rsrq           int32
	rssnr          int32
	cqi            int32
	timingAdvance  int32
}

func NewCellSignal(signalStrength, rsrp, rsrq, rssnr, cqi, timingAdvance int32) CellSignal {
	return CellSignal{
		signalStrength: signalStrength,
		rsrp:           rsrp,
		rsrq:           rsrq,
		rssnr:          rssnr,
		cqi:            cqi,
		timingAdvance:  timingAdvance,
	}
}

// UnknownCellSignal returns a snapshot with every field unavailable.
func UnknownCellSignal() CellSignal {
	return NewCellSignal(
		FieldUnavailable,
		FieldUnavailable,
		FieldUnavailable,
		FieldUnavailable,
		FieldUnavailable,
		FieldUnavailable,
	)
}

// Copy returns an independent snapshot with the same field values.
func (s CellSignal) Copy() CellSignal {
	return s
}

// SignalStrength returns the legacy signal-strength index, or FieldUnavailable.
func (s CellSignal) SignalStrength() int32 { return s.signalStrength }

// RSRP returns the reference signal received power in dBm, or FieldUnavailable.
func (s CellSignal) RSRP() int32 { return s.rsrp }

// RSRQ returns the reference signal received quality in dB, or FieldUnavailable.
func (s CellSignal) RSRQ() int32 { return s.rsrq }

// RSSNR returns the reference signal signal-to-noise ratio in dB, or FieldUnavailable.
func (s CellSignal) RSSNR() int32 { return s.rssnr }

// CQI returns the channel quality indicator, or FieldUnavailable.
func (s CellSignal) CQI() int32 { return s.cqi }

// TimingAdvance returns the uplink timing advance in symbol periods
// (0..1282), or FieldUnavailable when there is no active RRC connection.
func (s CellSignal) TimingAdvance() int32 { return s.timingAdvance }

// Dbm returns the signal strength in dBm, which for LTE is the RSRP.
func (s CellSignal) Dbm() int32 { return s.rsrp }

// SignalStrengthValue returns the legacy index and whether it was reported.
func (s CellSignal) SignalStrengthValue() (int32, bool) {
	return s.signalStrength, s.signalStrength != FieldUnavailable
}

// RSRPValue returns the RSRP and whether it was reported.
func (s CellSignal) RSRPValue() (int32, bool) {
	return s.rsrp, s.rsrp != FieldUnavailable
}

// RSRQValue returns the RSRQ and whether it was reported.
func (s CellSignal) RSRQValue() (int32, bool) {
	return s.rsrq, s.rsrq != FieldUnavailable
}

// RSSNRValue returns the RSSNR and whether it was reported.
func (s CellSignal) RSSNRValue() (int32, bool) {
	return s.rssnr, s.rssnr != FieldUnavailable
}

// CQIValue returns the CQI and whether it was reported.
func (s CellSignal) CQIValue() (int32, bool) {
	return s.cqi, s.cqi != FieldUnavailable
}

// TimingAdvanceValue returns the timing advance and whether it was reported.
func (s CellSignal) TimingAdvanceValue() (int32, bool) {
	return s.timingAdvance, s.timingAdvance != FieldUnavailable
}

// Equal reports whether both snapshots hold identical values in every field,
// unavailable fields included.
func (s CellSignal) Equal(other CellSignal) bool {
	return s == other
}

// Hash returns a stable hash over all six fields. Equal snapshots hash
// identically.
func (s CellSignal) Hash() uint64 {
	h := fnv.New64a()
	var buf [4]byte
	for _, v := range [...]int32{s.signalStrength, s.rsrp, s.rsrq, s.rssnr, s.cqi, s.timingAdvance} {
		u := uint32(v)
		buf[0] = byte(u >> 24)
		buf[1] = byte(u >> 16)
		buf[2] = byte(u >> 8)
		buf[3] = byte(u)
		_, _ = h.Write(buf[:])
	}

	return h.Sum64()
}

func (s CellSignal) String() string {
	return fmt.Sprintf("CellSignal: ss=%s rsrp=%s rsrq=%s rssnr=%s cqi=%s ta=%s",
		formatField(s.signalStrength),
		formatField(s.rsrp),
		formatField(s.rsrq),
		formatField(s.rssnr),
		formatField(s.cqi),
		formatField(s.timingAdvance),
	)
}

func formatField(v int32) string {
	if v == FieldUnavailable {
		return "n/a"
	}

	return fmt.Sprintf("%d", v)
}
