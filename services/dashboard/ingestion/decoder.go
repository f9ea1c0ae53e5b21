package ingestion

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
	"github.com/tidwall/gjson"
)

// DecodeSnapshot parses one push channel payload. The payload must be a JSON object with at least one
// numeric field. JSON numbers and numeric strings become values; every top-level field is kept verbatim in Raw.
func DecodeSnapshot(raw []byte, receivedAt time.Time) (common.Snapshot, error) {
	if len(raw) == 0 {
		return common.Snapshot{}, fmt.Errorf("%w: empty payload", common.ErrDecode)
	}
	if !gjson.ValidBytes(raw) {
		return common.Snapshot{}, fmt.Errorf("%w: payload is not valid JSON", common.ErrDecode)
	}

	document := gjson.ParseBytes(raw)
	if !document.IsObject() {
		return common.Snapshot{}, fmt.Errorf("%w: payload is not a JSON object", common.ErrDecode)
	}

	snapshot := common.Snapshot{
		ReceivedAt: receivedAt,
		Values:     make(map[string]float64),
		Raw:        make(map[string]string),
	}
	document.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if name == "" {
			return true
		}

		snapshot.Raw[name] = rawText(value)

		number, isNumeric := numericValue(value)
		if !isNumeric {
			return true
		}
		if _, seen := snapshot.Values[name]; !seen {
			snapshot.Fields = append(snapshot.Fields, name)
		}
		snapshot.Values[name] = number

		return true
	})

	if len(snapshot.Fields) == 0 {
		return common.Snapshot{}, fmt.Errorf("%w: payload carries no numeric field", common.ErrDecode)
	}

	return snapshot, nil
}

func rawText(value gjson.Result) string {
	if value.Type == gjson.String {
		return value.Str
	}

	return value.Raw
}

func numericValue(value gjson.Result) (float64, bool) {
	var number float64
	switch value.Type {
	case gjson.Number:
		number = value.Num
	case gjson.String:
		var err error
		number, err = strconv.ParseFloat(strings.TrimSpace(value.Str), 64)
		if err != nil {
			return 0, false
		}
	default:
		return 0, false
	}

	if math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}

	return number, true
}
