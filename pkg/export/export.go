// Package export writes contact result sets to flat files for downstream
// modelling tools. The format follows the output file's extension.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Loop3D/loopresources/internal/types"
)

// ErrUnsupportedFormat indicates an output extension no writer exists for.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// WriteContacts writes desurveyed contact points to path. ".csv" writes a
// headered CSV table; ".msgpack" writes a MessagePack-encoded record list.
func WriteContacts(path string, contacts []types.ContactPoint) error {
	switch filepath.Ext(path) {
	case ".csv":
		header := []string{"hole_id", "depth", "litho_above", "litho_below", "x", "y", "z"}
		return writeCSV(path, header, len(contacts), func(i int) []string {
			c := contacts[i]
			return []string{
				c.HoleID, ftoa(c.Depth), c.Above, c.Below,
				ftoa(c.X), ftoa(c.Y), ftoa(c.Z),
			}
		})
	case ".msgpack":
		return writeMsgpack(path, contacts)
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// WriteOrientedContacts writes plane-fitted contacts to path.
func WriteOrientedContacts(path string, oriented []types.OrientedContact) error {
	switch filepath.Ext(path) {
	case ".csv":
		header := []string{
			"hole_id", "depth", "litho_above", "litho_below", "x", "y", "z",
			"nx", "ny", "nz", "dip_deg", "azimuth_deg", "n_neighbors",
		}
		return writeCSV(path, header, len(oriented), func(i int) []string {
			o := oriented[i]
			return []string{
				o.HoleID, ftoa(o.Depth), o.Above, o.Below,
				ftoa(o.X), ftoa(o.Y), ftoa(o.Z),
				ftoa(o.NX), ftoa(o.NY), ftoa(o.NZ),
				ftoa(o.DipDeg), ftoa(o.AzimuthDeg),
				strconv.Itoa(o.NNeighbors),
			}
		})
	case ".msgpack":
		return writeMsgpack(path, oriented)
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

func writeCSV(path string, header []string, n int, row func(i int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeMsgpack(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
