// Introspection records (spec.md §4.5 "details"/"trace") and the
// tabular human-readable rendering of them. Allocation only happens
// when details or trace is enabled, per spec.md §9 ("Introspection
// without overhead").
package ibl

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// ChunkActivationLog is one contributing chunk's diagnostic record.
type ChunkActivationLog struct {
	ChunkID     int
	Created     int64
	References  []int64
	Base        float64
	Noise       float64
	Activation  float64
	Probability float64
}

// OptionLog is one option's diagnostic record within a ChoiceLog.
type OptionLog struct {
	Option       any
	Chunks       []ChunkActivationLog
	BlendedValue float64
	Defaulted    bool
	Chosen       bool
}

// ChoiceLog is the full per-call diagnostic record a Choose/Choose2
// invocation produces whenever details or trace is enabled.
type ChoiceLog struct {
	Time    int64
	Options []OptionLog
}

// WriteTable renders the log as the tabular text format spec.md's
// "trace" toggle describes.
func (cl *ChoiceLog) WriteTable(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "t=%d\n", cl.Time)
	fmt.Fprintln(tw, "option\tchunk\tcreated\trefs\tbase\tnoise\tactivation\tprob\tblended\tchosen")
	for _, opt := range cl.Options {
		if opt.Defaulted || len(opt.Chunks) == 0 {
			fmt.Fprintf(tw, "%v\t-\t-\t-\t-\t-\t-\t-\t%.4f\t%v\n", opt.Option, opt.BlendedValue, opt.Chosen)
			continue
		}
		for i, c := range opt.Chunks {
			label := fmt.Sprintf("%v", opt.Option)
			if i > 0 {
				label = ""
			}
			blended := ""
			chosen := ""
			if i == 0 {
				blended = fmt.Sprintf("%.4f", opt.BlendedValue)
				chosen = fmt.Sprintf("%v", opt.Chosen)
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%v\t%.4f\t%.4f\t%.4f\t%.4f\t%s\t%s\n",
				label, c.ChunkID, c.Created, c.References, c.Base, c.Noise, c.Activation, c.Probability, blended, chosen)
		}
	}
	tw.Flush()
}
