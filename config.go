package sheettable

import (
	"github.com/domonda/go-sheettable/csvtable"
)

var (
	// CSVFormat is the format of all CSV files if not nil,
	// disabling the detection of encoding, separator, and newline.
	CSVFormat *csvtable.Format

	// CSVFormatDetection configures the encoding detection of CSV files
	// used if CSVFormat is nil.
	// Nil means csvtable.NewDefaultFormatDetectionConfig().
	CSVFormatDetection *csvtable.FormatDetectionConfig
)
