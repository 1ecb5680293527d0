package geocode

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/thomhuang/happycamper/internal/model"
)

// GeonamesURL is the postal code dump for the United States.
const GeonamesURL = "https://download.geonames.org/export/zip/US.zip"

const datasetFile = "US.txt"

var ErrDatasetMissing = errors.New("geonames archive has no " + datasetFile)

type Geography struct {
	ZipCode   string
	City      string
	StateCode string
	Latitude  float64
	Longitude float64
}

func (g Geography) Location() model.PostalCodeLocation {
	return model.PostalCodeLocation{Code: g.ZipCode, Latitude: g.Latitude, Longitude: g.Longitude}
}

// LoadGeonames returns the rows of the geonames archive. A readable
// cacheFile is used instead of downloading; a fresh download is written
// back to cacheFile when one is given.
func LoadGeonames(ctx context.Context, client *http.Client, url, cacheFile string, log *slog.Logger) ([]Geography, error) {
	if cacheFile != "" {
		if body, err := os.ReadFile(cacheFile); err == nil {
			return ReadArchive(body, log)
		}
	}

	body, err := download(ctx, client, url)
	if err != nil {
		return nil, err
	}

	if cacheFile != "" {
		if err := os.WriteFile(cacheFile, body, 0o644); err != nil {
			log.Warn("could not save geonames cache file", "file", cacheFile, "err", err)
		}
	}
	return ReadArchive(body, log)
}

func download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not download postal code data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("could not download postal code data: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read zipped postal code data: %w", err)
	}
	return body, nil
}

// ReadArchive unzips a geonames archive and parses its data file, ignoring
// the readme that ships next to it.
func ReadArchive(body []byte, log *slog.Logger) ([]Geography, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("could not unzip postal code data: %w", err)
	}

	for _, f := range zipReader.File {
		if f.Name != datasetFile {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("could not open %s: %w", datasetFile, err)
		}
		defer rc.Close()

		return ParseGeonames(rc, log), nil
	}
	return nil, ErrDatasetMissing
}

// ParseGeonames reads the tab separated geonames format. Rows that cannot
// be read or carry bad coordinates are logged and skipped.
func ParseGeonames(reader io.Reader, log *slog.Logger) []Geography {
	var postalCodes []Geography

	csvReader := csv.NewReader(reader)
	csvReader.Comma = '\t'
	csvReader.FieldsPerRecord = 12
	csvReader.LazyQuotes = true

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("could not read geonames record", "err", err)
			continue
		}

		postalCode := record[1]

		latitude, err := strconv.ParseFloat(record[9], 64)
		if err != nil {
			log.Warn("could not parse latitude", "postal_code", postalCode, "err", err)
			continue
		}

		longitude, err := strconv.ParseFloat(record[10], 64)
		if err != nil {
			log.Warn("could not parse longitude", "postal_code", postalCode, "err", err)
			continue
		}

		postalCodes = append(postalCodes, Geography{
			ZipCode:   postalCode,
			City:      record[2],
			StateCode: record[4],
			Latitude:  latitude,
			Longitude: longitude,
		})
	}

	return postalCodes
}

// Dataset answers lookups from a parsed geonames dump held in memory.
type Dataset struct {
	codes map[string]model.PostalCodeLocation
}

func NewDataset(rows []Geography) *Dataset {
	codes := make(map[string]model.PostalCodeLocation, len(rows))
	for _, row := range rows {
		codes[row.ZipCode] = row.Location()
	}
	return &Dataset{codes: codes}
}

func (d *Dataset) Geocode(_ context.Context, code string) (model.PostalCodeLocation, error) {
	loc, ok := d.codes[code]
	if !ok {
		return model.PostalCodeLocation{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	return loc, nil
}

func (d *Dataset) Len() int { return len(d.codes) }
