// Command filter_candidates applies lemma, tag and/or frequency filters to a
// previously extracted candidate list and writes the surviving candidates to
// a new file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/tombosc/mwer/internal/candidate"
	"github.com/tombosc/mwer/internal/config"
	"github.com/tombosc/mwer/internal/corpus"
	"github.com/tombosc/mwer/internal/sentence"
	"github.com/tombosc/mwer/internal/wordtype"
)

// Candidate-list factor layout (distinct from the corpus token layout).
const (
	formOrLemmaC = 0
	tagC         = 1
	parentIDC    = 3
)

type options struct {
	input      string
	output     string
	order      int
	invert     bool
	freqFilter string
	lemmaRegex string
	tagRegex   string
	envPath    string
	quiet      bool
}

func parseFlags() *options {
	o := &options{}
	flag.StringVar(&o.input, "input", "", "candidate list to filter (required)")
	flag.StringVar(&o.input, "i", "", "shorthand for -input")
	flag.StringVar(&o.output, "output", "", "filtered candidate list output (required)")
	flag.StringVar(&o.output, "o", "", "shorthand for -output")
	flag.IntVar(&o.order, "n", 0, "candidate arity, 2..4 (required)")
	flag.BoolVar(&o.invert, "invert", false, "reject matching candidates instead of keeping them")
	flag.BoolVar(&o.invert, "r", false, "shorthand for -invert")
	flag.StringVar(&o.freqFilter, "frequency-filter", "", "keep candidates with count in \"min-max\"")
	flag.StringVar(&o.freqFilter, "f", "", "shorthand for -frequency-filter")
	flag.StringVar(&o.lemmaRegex, "lemma-filter", "", "n colon-separated regexes, one per slot")
	flag.StringVar(&o.lemmaRegex, "l", "", "shorthand for -lemma-filter")
	flag.StringVar(&o.tagRegex, "tag-filter", "", "n colon-separated regexes, one per slot")
	flag.StringVar(&o.tagRegex, "t", "", "shorthand for -tag-filter")
	flag.StringVar(&o.envPath, "env", ".env", "dotenv file to load once flags are parsed, silently skipped if absent")
	flag.BoolVar(&o.quiet, "quiet", false, "suppress the banner output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -i candidates -o output -n N [options]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	return o
}

func validate(o *options) error {
	if o.input == "" {
		return fmt.Errorf("missing required -input")
	}
	if o.output == "" {
		return fmt.Errorf("missing required -output")
	}
	if o.order < 2 || o.order > 4 {
		return fmt.Errorf("-n must be between 2 and 4, got %d", o.order)
	}
	return nil
}

func main() {
	o := parseFlags()
	config.LoadEnvFrom(o.envPath)
	if err := validate(o); err != nil {
		fmt.Fprintln(os.Stderr, "filter_candidates:", err)
		flag.Usage()
		os.Exit(2)
	}

	config.PrintBanner("filter_candidates", o.quiet,
		fmt.Sprintf("input=%s output=%s n=%d invert=%v", o.input, o.output, o.order, o.invert))

	p, err := corpus.Open(o.input, sentence.SepWords, sentence.SepFactors, sentence.SepSections)
	if err != nil {
		log.Fatalf("filter_candidates: %v", err)
	}
	defer p.Close()
	nFactors := p.NumberOfFactors()

	store, err := candidate.NewStore[*candidate.Candidate](o.order)
	if err != nil {
		log.Fatalf("filter_candidates: %v", err)
	}

	for !p.EndOfFile() {
		section := p.NextSection()
		if len(section) == 0 {
			p.NextLine()
			continue
		}

		types := make([]*wordtype.WordType, len(section))
		var parentIDs []int
		for i, s := range section {
			v := splitFactors(s)
			if nFactors > tagC {
				types[i] = store.AddWordType(v[formOrLemmaC], v[tagC])
			} else {
				types[i] = store.AddWordType(v[formOrLemmaC], "")
			}
			if nFactors > parentIDC {
				pid, err := strconv.Atoi(v[parentIDC])
				if err != nil {
					log.Fatalf("filter_candidates: non-numeric parent id %q", v[parentIDC])
				}
				parentIDs = append(parentIDs, pid)
			}
		}

		freqSection := p.NextSection()
		freq := 0
		if len(freqSection) > 0 {
			freq, err = strconv.Atoi(freqSection[0])
			if err != nil {
				log.Fatalf("filter_candidates: non-numeric frequency %q", freqSection[0])
			}
		}

		store.Insert(candidate.New(types, parentIDs, freq, 0), nil)
		p.NextLine()
	}

	if o.lemmaRegex != "" && nFactors > formOrLemmaC {
		patterns, err := candidate.CompilePatterns(o.lemmaRegex, o.order)
		if err != nil {
			log.Fatalf("filter_candidates: %v", err)
		}
		store.RegexpFilter(sentence.LEMMA, patterns, o.invert)
	}
	if o.tagRegex != "" && nFactors > tagC {
		patterns, err := candidate.CompilePatterns(o.tagRegex, o.order)
		if err != nil {
			log.Fatalf("filter_candidates: %v", err)
		}
		store.RegexpFilter(sentence.TAG, patterns, o.invert)
	}
	if o.freqFilter != "" {
		fmin, fmax, err := candidate.ParseRange(o.freqFilter)
		if err != nil {
			log.Fatalf("filter_candidates: %v", err)
		}
		store.FrequencyFilter(fmin, fmax, o.invert)
	}

	if err := store.WriteToFile(o.output); err != nil {
		log.Fatalf("filter_candidates: %v", err)
	}

	log.Printf("filter_candidates: wrote %d candidates to %s", store.Len(), o.output)
}

// splitFactors splits one candidate-list type token on the factor
// separator.
func splitFactors(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sentence.SepFactors {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
