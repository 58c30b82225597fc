package domain

// RSRP bucket lower bounds in dBm and RSSNR bucket lower bounds in dB.
// Inclusive, evaluated in descending order.
const (
	RSRPGreat    = -95
	RSRPGood     = -105
	RSRPModerate = -115

	RSSNRGreat    = 45
	RSSNRGood     = 10
	RSSNRModerate = -30
)

// ASU saturation bounds for the 3GPP 27.007 RSRP mapping.
const (
	asuFloorDbm = -140
	asuCeilDbm  = -43

	AsuMin     = 0
	AsuMax     = 97
	AsuUnknown = 99
)

// Level is the single human-facing quality bucket derived from a snapshot.
type Level int

const (
	LevelNone Level = iota
	LevelPoor
	LevelModerate
	LevelGood
	LevelGreat
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelPoor:
		return "poor"
	case LevelModerate:
		return "moderate"
	case LevelGood:
		return "good"
	case LevelGreat:
		return "great"
	default:
		return "unknown"
	}
}

// Level buckets the snapshot into 0..4 (0 = very poor, 4 = very strong).
// RSRP and RSSNR are bucketed independently; when both were reported the
// worse of the two wins, when only one was reported it decides alone, and
// when neither was reported the level is 0.
func (s CellSignal) Level() Level {
	levelRsrp := rsrpLevel(s.rsrp)
	levelRssnr := rssnrLevel(s.rssnr)

	switch {
	case s.rsrp == FieldUnavailable:
		return levelRssnr
	case s.rssnr == FieldUnavailable:
		return levelRsrp
	case levelRssnr < levelRsrp:
		return levelRssnr
	default:
		return levelRsrp
	}
}

func rsrpLevel(rsrp int32) Level {
	switch {
	case rsrp == FieldUnavailable:
		return LevelNone
	case rsrp >= RSRPGreat:
		return LevelGreat
	case rsrp >= RSRPGood:
		return LevelGood
	case rsrp >= RSRPModerate:
		return LevelModerate
	default:
		return LevelPoor
	}
}

func rssnrLevel(rssnr int32) Level {
	switch {
	case rssnr == FieldUnavailable:
		return LevelNone
	case rssnr >= RSSNRGreat:
		return LevelGreat
	case rssnr >= RSSNRGood:
		return LevelGood
	case rssnr >= RSSNRModerate:
		return LevelModerate
	default:
		return LevelPoor
	}
}

// AsuLevel maps the snapshot's RSRP to an arbitrary strength unit in 0..97,
// or 99 when RSRP was not reported. Saturates at the bounds instead of
// failing. Refer to 3GPP 27.007 (Ver 10.3.0) Sec 8.69.
func (s CellSignal) AsuLevel() int {
	dbm := s.Dbm()
	switch {
	case dbm == FieldUnavailable:
		return AsuUnknown
	case dbm <= asuFloorDbm:
		return AsuMin
	case dbm >= asuCeilDbm:
		return AsuMax
	default:
		return int(dbm) + 140
	}
}
