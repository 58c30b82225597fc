package radio

import (
	"encoding/binary"
	"errors"
	"fmt"

	"ltemon/internal/domain"
)

// RecordSize is the fixed length of one encoded signal snapshot: six
// big-endian signed 32-bit integers.
const RecordSize = 24

// ErrMalformedRecord marks decode input that does not match the fixed
// 24-byte record layout. The surrounding stream may carry on; the record
// itself is lost.
var ErrMalformedRecord = errors.New("malformed signal record")

// EncodeRecord serializes a snapshot into the fixed wire layout:
// signalStrength, rsrp, rsrq, rssnr, cqi, timingAdvance. RSRP and RSRQ are
// negated on the wire (ordinary readings are negative dBm/dB, so they travel
// as positive integers) unless they hold the unavailable sentinel, which is
// written verbatim so it can never collide with a legitimate negated value.
func EncodeRecord(s domain.CellSignal) []byte {
	buf := make([]byte, RecordSize)
	binary.BigEndian.PutUint32(buf[0:4], uint32(s.SignalStrength()))
	binary.BigEndian.PutUint32(buf[4:8], uint32(negateUnlessUnavailable(s.RSRP())))
	binary.BigEndian.PutUint32(buf[8:12], uint32(negateUnlessUnavailable(s.RSRQ())))
	binary.BigEndian.PutUint32(buf[12:16], uint32(s.RSSNR()))
	binary.BigEndian.PutUint32(buf[16:20], uint32(s.CQI()))
	binary.BigEndian.PutUint32(buf[20:24], uint32(s.TimingAdvance()))

	return buf
}

// DecodeRecord parses one fixed-layout record, reversing the RSRP/RSRQ sign
// transform. Input of any length other than RecordSize fails with
// ErrMalformedRecord.
func DecodeRecord(b []byte) (domain.CellSignal, error) {
	if len(b) != RecordSize {
		return domain.UnknownCellSignal(), fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedRecord, RecordSize, len(b))
	}

	signalStrength := int32(binary.BigEndian.Uint32(b[0:4]))
	rsrp := negateUnlessUnavailable(int32(binary.BigEndian.Uint32(b[4:8])))
	rsrq := negateUnlessUnavailable(int32(binary.BigEndian.Uint32(b[8:12])))
	rssnr := int32(binary.BigEndian.Uint32(b[12:16]))
	cqi := int32(binary.BigEndian.Uint32(b[16:20]))
	timingAdvance := int32(binary.BigEndian.Uint32(b[20:24]))

	return domain.NewCellSignal(signalStrength, rsrp, rsrq, rssnr, cqi, timingAdvance), nil
}

func negateUnlessUnavailable(v int32) int32 {
	if v == domain.FieldUnavailable {
		return v
	}

	return -v
}
