package domain

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
)

// GlossaryEntry documents one MERRA-2 variable behind the forecast model.
type GlossaryEntry struct {
	Code        string
	LongName    string
	Description string
	Unit        string
	Collection  string
	Link        string
}

// Glossary lists the source variables in export order.
var Glossary = []GlossaryEntry{
	{"QLML", "Surface Specific Humidity", "Instantaneous specific humidity at the land surface.", "kg kg-1", "MERRA-2 M2I1NXLFO", "https://disc.gsfc.nasa.gov/datasets/M2I1NXLFO_5.12.4/summary"},
	{"TLML", "Surface Air Temperature", "Instantaneous air temperature at the surface over land.", "K", "MERRA-2 M2I1NXLFO", "https://disc.gsfc.nasa.gov/datasets/M2I1NXLFO_5.12.4/summary"},
	{"SPEEDLML", "Surface Wind Speed", "Instantaneous wind speed at the land surface.", "m s-1", "MERRA-2 M2I1NXLFO", "https://disc.gsfc.nasa.gov/datasets/M2I1NXLFO_5.12.4/summary"},
	{"PRECTOTCORR", "Bias-Corrected Total Precipitation", "Total precipitation that has been bias-corrected. This field is the result of correcting the model-generated precipitation totals with observation data.", "kg m-2 s-1", "M2T1NXFLX", "https://disc.gsfc.nasa.gov/datasets/M2T1NXFLX_5.12.4/summary"},
	{"TQV", "Total Precipitable Water Vapor", "Total precipitable water vapor in the atmospheric column.", "kg m-2", "M2T1NXSLV", "https://disc.gsfc.nasa.gov/datasets/M2T1NXSLV_5.12.4/summary"},
}

var glossaryHeader = []string{"Variable Code", "Long Name", "Detailed Description", "Unit", "Data Collection", "Data Source Link"}

// ExportCSV renders the variable glossary followed by the client's stored
// forecast JSON, indented. forecastJSON must be valid JSON.
func ExportCSV(forecastJSON []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(glossaryHeader); err != nil {
		return nil, fmt.Errorf("write glossary header: %w", err)
	}
	for _, e := range Glossary {
		if err := w.Write([]string{e.Code, e.LongName, e.Description, e.Unit, e.Collection, e.Link}); err != nil {
			return nil, fmt.Errorf("write glossary row %s: %w", e.Code, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush glossary: %w", err)
	}

	buf.WriteString("\nForecast Data:\n")
	if err := json.Indent(&buf, forecastJSON, "", "  "); err != nil {
		return nil, fmt.Errorf("indent forecast data: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
