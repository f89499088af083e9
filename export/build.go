package export

import (
	"bytes"
	"fmt"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/xuri/excelize/v2"
)

// Kinds lists every workbook Build can render.
var Kinds = []string{KindFieldwise, KindRaffle}

// Options tune a build. All only affects the raffle sheet.
type Options struct {
	All bool
}

// Build renders the workbook of kind and returns its xlsx bytes.
func Build(kind string, batchmates []model.Batchmate, opts Options) ([]byte, error) {
	var (
		f   *excelize.File
		err error
	)
	switch kind {
	case KindFieldwise:
		f, err = Fieldwise(batchmates)
	case KindRaffle:
		f, err = Raffle(batchmates, opts.All)
	default:
		return nil, fmt.Errorf("unknown export kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s export: %w", kind, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write %s export: %w", kind, err)
	}
	return buf.Bytes(), nil
}
