// Package export writes look-ahead movement plans in formats consumed by
// depot planning tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/fleetops/ringrail/core/model"
)

// WriteJSON writes the movement plan to w in JSON format.
func WriteJSON(w io.Writer, plan []model.PlannedMove) error {
	enc := json.NewEncoder(w)
	return enc.Encode(plan)
}

// WriteCSV writes the movement plan to w in CSV format.
func WriteCSV(w io.Writer, plan []model.PlannedMove) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "vehicle", "from_station", "to_station", "reason"}); err != nil {
		return err
	}
	for _, mv := range plan {
		rec := []string{
			strconv.Itoa(mv.Step),
			mv.Vehicle,
			strconv.Itoa(mv.FromStation),
			strconv.Itoa(mv.ToStation),
			string(mv.Reason),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
