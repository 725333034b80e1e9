// Command compute_scores reads a statistics file and computes one score
// column per requested association measure, writing a tab-separated score
// file alongside the original candidate types.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/tombosc/mwer/internal/config"
	"github.com/tombosc/mwer/internal/corpus"
	"github.com/tombosc/mwer/internal/scorecalc"
	"github.com/tombosc/mwer/internal/sentence"
)

type options struct {
	input     string
	output    string
	smoothing float64
	scoreIDs  []int
	envPath   string
	quiet     bool
}

func parseFlags() *options {
	o := &options{smoothing: 0.5}
	flag.StringVar(&o.input, "input", "", "input statistics file (required)")
	flag.StringVar(&o.input, "i", "", "shorthand for -input")
	flag.StringVar(&o.output, "output", "", "output score file (required)")
	flag.StringVar(&o.output, "o", "", "shorthand for -output")
	flag.Float64Var(&o.smoothing, "smoothing", 0.5, "smoothing parameter added to contingency cells")
	flag.Float64Var(&o.smoothing, "s", 0.5, "shorthand for -smoothing")
	flag.StringVar(&o.envPath, "env", ".env", "dotenv file to load once flags are parsed, silently skipped if absent")
	flag.BoolVar(&o.quiet, "quiet", false, "suppress the banner output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s s1 [s2 ... sn] -i input -o output [-s smoothing]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "s1..sn are the score ids to compute, passed as positional arguments.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	for _, arg := range flag.Args() {
		id, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "compute_scores: invalid score id %q\n", arg)
			os.Exit(2)
		}
		o.scoreIDs = append(o.scoreIDs, id)
	}
	return o
}

func validate(o *options) error {
	if len(o.scoreIDs) == 0 {
		return fmt.Errorf("no score to compute: pass score ids as positional arguments")
	}
	if o.input == "" {
		return fmt.Errorf("missing required -input")
	}
	if o.output == "" {
		return fmt.Errorf("missing required -output")
	}
	return nil
}

func maxInt(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func main() {
	o := parseFlags()
	config.LoadEnvFrom(o.envPath)
	if err := validate(o); err != nil {
		fmt.Fprintln(os.Stderr, "compute_scores:", err)
		flag.Usage()
		os.Exit(2)
	}

	config.PrintBanner("compute_scores", o.quiet,
		fmt.Sprintf("input=%s output=%s scores=%v smoothing=%g", o.input, o.output, o.scoreIDs, o.smoothing))

	p, err := corpus.Open(o.input, sentence.SepWords, sentence.SepFactors, sentence.SepSections)
	if err != nil {
		log.Fatalf("compute_scores: %v", err)
	}
	defer p.Close()

	nSections := p.NumberOfSections()
	immediateContext := nSections == 3 || nSections == 4
	broadContext := nSections == 3

	maxScore := maxInt(o.scoreIDs)
	if maxScore > 55 && !immediateContext {
		log.Fatalf("compute_scores: score #%d needs immediate context, statistics file has none", maxScore)
	}
	if maxScore > 60 && !broadContext {
		log.Fatalf("compute_scores: score #%d needs broad context, statistics file has none", maxScore)
	}

	sc := scorecalc.New(immediateContext, broadContext, o.scoreIDs, float32(o.smoothing))

	var b strings.Builder
	for !p.EndOfFile() {
		types := p.NextSection()
		if len(types) == 0 {
			p.NextLine()
			continue
		}

		if len(types) == 1 {
			freqSection := p.NextSection()
			freq, err := strconv.Atoi(freqSection[0])
			if err != nil {
				log.Fatalf("compute_scores: non-numeric frequency %q", freqSection[0])
			}
			names, freqs := parseContext(p.NextSection())
			sc.AddType(types[0], freq, names, freqs)
			p.NextLine()
			continue
		}

		if broadContext {
			sc.NewCandidateTypes(stripToFormLemma(types))
		} else {
			sc.NewCandidate()
		}

		cells, err := parseInts(p.NextSection())
		if err != nil {
			log.Fatalf("compute_scores: %v", err)
		}
		sc.AddContingencyTable(cells)

		if immediateContext {
			leftNames, leftFreqs := parseContext(p.NextSection())
			sc.AddToImmediateContext(scorecalc.Left, leftNames, leftFreqs)
			rightNames, rightFreqs := parseContext(p.NextSection())
			sc.AddToImmediateContext(scorecalc.Right, rightNames, rightFreqs)
		}
		if broadContext {
			broadNames, broadFreqs := parseContext(p.NextSection())
			sc.AddToBroadContext(broadNames, broadFreqs)
		}

		scores := sc.Compute()
		fmt.Fprintf(&b, "%s%c", strings.Join(types, string(sentence.SepWords)), sentence.SepSections)
		parts := make([]string, len(scores))
		for i, v := range scores {
			parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
		}
		fmt.Fprintln(&b, strings.Join(parts, string(sentence.SepWords)))

		p.NextLine()
	}

	if err := corpus.WriteString(o.output, b.String()); err != nil {
		log.Fatalf("compute_scores: %v", err)
	}

	log.Printf("compute_scores: wrote scores to %s", o.output)
}

// parseContext splits a "type:freq" section into parallel name/frequency
// slices, skipping empty entries (an empty context column in a statistics
// file).
func parseContext(section []string) ([]string, []int) {
	var names []string
	var freqs []int
	for _, entry := range section {
		if entry == "" {
			continue
		}
		idx := strings.IndexByte(entry, sentence.SepRegexps)
		if idx < 0 {
			continue
		}
		freq, err := strconv.Atoi(entry[idx+1:])
		if err != nil {
			continue
		}
		names = append(names, entry[:idx])
		freqs = append(freqs, freq)
	}
	return names, freqs
}

func parseInts(section []string) ([]int, error) {
	out := make([]int, len(section))
	for i, s := range section {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("non-numeric contingency cell %q", s)
		}
		out[i] = v
	}
	return out, nil
}

// stripToFormLemma keeps only the first two "|"-separated factors of each
// type token (form/lemma and tag), dropping dependency id/parent-id
// suffixes so broad-context type identities are comparable across
// candidates of different arity.
func stripToFormLemma(types []string) []string {
	out := make([]string, len(types))
	for i, t := range types {
		first := strings.IndexByte(t, sentence.SepFactors)
		if first < 0 {
			out[i] = t
			continue
		}
		second := strings.IndexByte(t[first+1:], sentence.SepFactors)
		if second < 0 {
			out[i] = t
			continue
		}
		out[i] = t[:first+1+second]
	}
	return out
}
