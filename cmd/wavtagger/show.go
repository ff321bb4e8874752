package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cwbudde/wavmeta"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print the chunk layout and metadata of a wav file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := wavmeta.ReadFile(args[0])
			if err != nil {
				return err
			}

			for _, err := range report.Errors {
				a.logger.Warn("Undecodable metadata chunk", "path", args[0], "error", err)
			}

			printReport(cmd.OutOrStdout(), report)

			return nil
		},
	}
}

func printReport(out io.Writer, r *wavmeta.Report) {
	if r.Fmt != nil {
		fmt.Fprintf(out, "Format: %s, %d Hz, %d channels, %d bits\n",
			r.Fmt.FormatName(), r.Fmt.SampleRate, r.Fmt.NumChannels, r.Fmt.BitsPerSample)
	}

	if r.Duration > 0 {
		fmt.Fprintf(out, "Duration: %s\n", r.Duration)
	}

	fmt.Fprintln(out, "Chunks:")

	for _, c := range r.Chunks {
		fmt.Fprintf(out, "\t%q\t%d\n", c.ID, c.Size)
	}

	m := r.Metadata
	if m == nil {
		fmt.Fprintln(out, "No metadata present")
		return
	}

	if b := m.BroadcastExtension; b != nil {
		fmt.Fprintln(out, "bext:")
		fmt.Fprintf(out, "\tOriginator: %s\n", b.Originator)
		fmt.Fprintf(out, "\tOriginatorReference: %s\n", b.OriginatorReference)
		fmt.Fprintf(out, "\tDescription: %s\n", b.Description)
		fmt.Fprintf(out, "\tOriginationDate: %s %s\n", b.OriginationDate, b.OriginationTime)
	}

	if t := m.ID3; t != nil {
		fmt.Fprintf(out, "ID3v2.%d:\n", t.Version)

		for _, f := range t.Frames {
			fmt.Fprintf(out, "\t%s: %s\n", f.ID, f.Text)
		}
	}

	if i := m.Info; i != nil {
		fmt.Fprintln(out, "INFO:")
		fmt.Fprintf(out, "\tSoftware: %s\n", i.Software)
		fmt.Fprintf(out, "\tTitle: %s\n", i.Title)
		fmt.Fprintf(out, "\tCreationDate: %s\n", i.CreationDate)
		fmt.Fprintf(out, "\tProduct: %s\n", i.Product)
		fmt.Fprintf(out, "\tGenre: %s\n", i.Genre)
		fmt.Fprintf(out, "\tCopyright: %s\n", i.Copyright)
		fmt.Fprintf(out, "\tComments: %s\n", i.Comments)
		fmt.Fprintf(out, "\tLocation: %s\n", i.Location)
		fmt.Fprintf(out, "\tArtist: %s\n", i.Artist)
	}

	if x := m.IXML; x != nil {
		fmt.Fprintf(out, "iXML %s:\n", x.Version)

		for _, f := range x.User.Fields {
			fmt.Fprintf(out, "\t%s: %s\n", f.XMLName.Local, f.Value)
		}
	}

	if len(m.XMP) > 0 {
		fmt.Fprintln(out, "XMP:")

		for _, key := range sortedKeys(m.XMP) {
			fmt.Fprintf(out, "\t%s: %s\n", key, m.XMP[key])
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
