package transit

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/paulcager/osgridref"
	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/ctdf"
)

// StopRow is one row of a NaPTAN style Stops.csv export
type StopRow struct {
	ATCOCode   string  `csv:"ATCOCode"`
	NaptanCode string  `csv:"NaptanCode"`
	CommonName string  `csv:"CommonName"`
	Easting    string  `csv:"Easting"`
	Northing   string  `csv:"Northing"`
	Longitude  float64 `csv:"Longitude"`
	Latitude   float64 `csv:"Latitude"`
	StopType   string  `csv:"StopType"`
}

// LoadStopsCSV parses a stops export. Rows without coordinates fall back to converting
// their OS grid easting/northing; rows with neither are skipped.
func LoadStopsCSV(reader io.Reader) ([]*ctdf.Stop, error) {
	// Allow rows with missing trailing columns
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})

	var rows []*StopRow
	if err := gocsv.Unmarshal(reader, &rows); err != nil {
		return nil, fmt.Errorf("parsing stops csv: %w", err)
	}

	stops := make([]*ctdf.Stop, 0, len(rows))
	skipped := 0

	for _, row := range rows {
		latitude, longitude, ok := row.coordinates()
		if !ok || row.ATCOCode == "" {
			skipped++
			continue
		}

		stop := &ctdf.Stop{
			PrimaryIdentifier: fmt.Sprintf(ctdf.StopIDFormat, row.ATCOCode),
			OtherIdentifiers: map[string]string{
				"AtcoCode": row.ATCOCode,
			},
			PrimaryName:    row.CommonName,
			Location:       ctdf.NewLocation(latitude, longitude),
			TransportTypes: stopTypeTransportTypes(row.StopType),
		}
		if row.NaptanCode != "" {
			stop.OtherIdentifiers["NaptanCode"] = row.NaptanCode
		}

		stops = append(stops, stop)
	}

	if skipped > 0 {
		log.Debug().Int("skipped", skipped).Msg("Stops without a usable location")
	}

	return stops, nil
}

func (row *StopRow) coordinates() (float64, float64, bool) {
	if row.Latitude != 0 && row.Longitude != 0 {
		return row.Latitude, row.Longitude, true
	}

	if row.Easting == "" || row.Northing == "" {
		return 0, 0, false
	}

	gridRef, err := osgridref.ParseOsGridRef(fmt.Sprintf("%s,%s", row.Easting, row.Northing))
	if err != nil {
		log.Debug().Err(err).Str("stop", row.ATCOCode).Msg("Invalid grid reference")
		return 0, 0, false
	}

	lat, lon := gridRef.ToLatLon()
	return lat, lon, true
}

func stopTypeTransportTypes(stopType string) []ctdf.TransportType {
	switch stopType {
	case "BCT", "BCS", "BCQ", "BST":
		return []ctdf.TransportType{ctdf.TransportTypeBus}
	case "RLY", "RSE", "RPL":
		return []ctdf.TransportType{ctdf.TransportTypeRail}
	case "MET", "PLT", "TMU":
		return []ctdf.TransportType{ctdf.TransportTypeMetro, ctdf.TransportTypeTram}
	case "FER", "FBT":
		return []ctdf.TransportType{ctdf.TransportTypeFerry}
	case "AIR", "GAT":
		return []ctdf.TransportType{ctdf.TransportTypeAirport}
	default:
		return nil
	}
}
