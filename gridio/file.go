package gridio

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
)

// RLEExtension marks files that LoadFile decodes with ParseRLE.
const RLEExtension = ".rle"

// LoadFile reads a grid from path, picking the format from the extension:
// RLE for ".rle", plain text otherwise.
func LoadFile(path string, opts ...RLEOption) (*model.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: unwrapPathError(err)}
	}
	defer f.Close()

	var g *model.Grid
	if strings.EqualFold(filepath.Ext(path), RLEExtension) {
		g, err = ParseRLE(f, opts...)
	} else {
		g, err = ParsePlainText(f)
	}
	if err != nil {
		var formatErr *FormatError
		if !errors.As(err, &formatErr) {
			return nil, &IOError{Op: "read", Path: path, Err: unwrapPathError(errors.Cause(err))}
		}
		return nil, errors.Wrapf(err, "[LoadFile] failed to load grid from file: %+v", path)
	}
	return g, nil
}

// SaveFile writes g to path in plain text format, replacing any existing file.
func SaveFile(path string, g *model.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: unwrapPathError(err)}
	}
	if err := SerializePlainText(f, g); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: path, Err: errors.Cause(err)}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: unwrapPathError(err)}
	}
	return nil
}

func unwrapPathError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
