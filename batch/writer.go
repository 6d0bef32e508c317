package batch

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cwbudde/algo-emg/feature"
)

// WriteFeatureCSV writes the successful rows as one rectangular table:
// identifier column first, then every channel's descriptors grouped
// contiguously in catalogue order, each channel block closed by its two
// percent-missing diagnostics. The channel layout comes from the first
// successful row; a channel absent from a later row leaves its cells
// empty. With no successful rows nothing is written.
func WriteFeatureCSV(w io.Writer, results []Result, reg *feature.Registry) error {
	names := append(reg.Names(feature.DomainTime), reg.Names(feature.DomainFrequency)...)

	var channels []string

	for i := range results {
		if results[i].Err != nil || len(results[i].Row.Channels) == 0 {
			continue
		}

		for _, cf := range results[i].Row.Channels {
			channels = append(channels, cf.Channel)
		}

		break
	}

	if channels == nil {
		return nil
	}

	header := make([]string, 0, 1+len(channels)*(len(names)+2))
	header = append(header, "File")

	for _, ch := range channels {
		for _, name := range names {
			header = append(header, ch+"_"+name)
		}

		header = append(header, ch+"_PercentMissingTime", ch+"_PercentMissingSpectral")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range results {
		if results[i].Err != nil {
			continue
		}

		row := results[i].Row

		byChannel := make(map[string]feature.ChannelFeatures, len(row.Channels))
		for _, cf := range row.Channels {
			byChannel[cf.Channel] = cf
		}

		fields := make([]string, 0, len(header))
		fields = append(fields, row.ID)

		for _, ch := range channels {
			cf, ok := byChannel[ch]
			if !ok {
				for range len(names) + 2 {
					fields = append(fields, "")
				}

				continue
			}

			for _, name := range names {
				fields = append(fields, formatValue(cf.Values[name]))
			}

			fields = append(fields, formatValue(cf.PercentMissingTime), formatValue(cf.PercentMissingSpectral))
		}

		if err := cw.Write(fields); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
