// Command extract_candidates reads an annotated corpus and writes the set of
// distinct order-n multi-word candidates it contains, one per line, each
// tagged with its raw occurrence count.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/tombosc/mwer/internal/candidate"
	"github.com/tombosc/mwer/internal/checkpoint"
	"github.com/tombosc/mwer/internal/config"
	"github.com/tombosc/mwer/internal/corpus"
	"github.com/tombosc/mwer/internal/progress"
	"github.com/tombosc/mwer/internal/runstats"
	"github.com/tombosc/mwer/internal/sentence"
)

type options struct {
	corpus     string
	output     string
	order      int
	dependency bool
	surface    bool
	adjacent   bool
	distRange  string
	freqFilter string
	lemmaRegex string
	tagRegex   string

	checkpointPath string
	progressBar    bool
	statsPath      string
	envPath        string
	quiet          bool
}

func parseFlags() *options {
	o := &options{}
	flag.StringVar(&o.corpus, "corpus", "", "annotated corpus file, `.gz` accepted (required)")
	flag.StringVar(&o.corpus, "c", "", "shorthand for -corpus")
	flag.StringVar(&o.output, "output", "", "candidate list output file (required)")
	flag.StringVar(&o.output, "o", "", "shorthand for -output")
	flag.IntVar(&o.order, "n", 0, "candidate arity, 2..4 (required)")
	flag.BoolVar(&o.dependency, "dependency", false, "enumerate connected dependency subtrees")
	flag.BoolVar(&o.dependency, "d", false, "shorthand for -dependency")
	flag.BoolVar(&o.surface, "surface", false, "enumerate gapped surface n-grams")
	flag.BoolVar(&o.surface, "s", false, "shorthand for -surface")
	flag.BoolVar(&o.adjacent, "adjacent", false, "restrict to adjacent n-grams (min=max=n-1)")
	flag.BoolVar(&o.adjacent, "a", false, "shorthand for -adjacent")
	flag.StringVar(&o.distRange, "distance-range", "", "surface distance window \"min-max\" or \"min\"")
	flag.StringVar(&o.distRange, "r", "", "shorthand for -distance-range")
	flag.StringVar(&o.freqFilter, "frequency-filter", "", "keep only candidates with count in \"min-max\" or \"min\"")
	flag.StringVar(&o.freqFilter, "f", "", "shorthand for -frequency-filter")
	flag.StringVar(&o.lemmaRegex, "lemma-filter", "", "n colon-separated regexes, one per slot, matched against lemma/form")
	flag.StringVar(&o.lemmaRegex, "l", "", "shorthand for -lemma-filter")
	flag.StringVar(&o.tagRegex, "tag-filter", "", "n colon-separated regexes, one per slot, matched against tag")
	flag.StringVar(&o.tagRegex, "t", "", "shorthand for -tag-filter")

	flag.StringVar(&o.checkpointPath, "checkpoint", "", "bbolt resume ledger path (optional)")
	flag.BoolVar(&o.progressBar, "progress", true, "show a byte-based progress bar")
	flag.StringVar(&o.statsPath, "stats", "", "write a JSON run summary to this path (optional)")
	flag.StringVar(&o.envPath, "env", ".env", "dotenv file to load once flags are parsed, silently skipped if absent")
	flag.BoolVar(&o.quiet, "quiet", false, "suppress the banner and progress output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -c corpus -o output -n N (-d|-s) [options]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	return o
}

func validate(o *options) error {
	if o.corpus == "" {
		return fmt.Errorf("missing required -corpus")
	}
	if o.output == "" {
		return fmt.Errorf("missing required -output")
	}
	if o.order < 2 || o.order > 4 {
		return fmt.Errorf("-n must be between 2 and 4, got %d", o.order)
	}
	if o.dependency == o.surface {
		return fmt.Errorf("exactly one of -dependency or -surface must be set")
	}
	return nil
}

func resolveRange(o *options) (min, max int, err error) {
	if o.adjacent {
		return o.order - 1, o.order - 1, nil
	}
	if o.distRange == "" {
		return o.order - 1, math.MaxInt32, nil
	}
	return candidate.ParseRange(o.distRange)
}

func main() {
	o := parseFlags()
	config.LoadEnvFrom(o.envPath)
	if err := validate(o); err != nil {
		fmt.Fprintln(os.Stderr, "extract_candidates:", err)
		flag.Usage()
		os.Exit(2)
	}

	min, max, err := resolveRange(o)
	if err != nil {
		log.Fatalf("extract_candidates: %v", err)
	}

	config.PrintBanner("extract_candidates", o.quiet,
		fmt.Sprintf("corpus=%s output=%s n=%d dependency=%v range=[%d,%d]", o.corpus, o.output, o.order, o.dependency, min, max))

	started := time.Now()

	p, err := corpus.Open(o.corpus, sentence.SepWords, sentence.SepFactors, 0)
	if err != nil {
		log.Fatalf("extract_candidates: %v", err)
	}
	defer p.Close()

	if o.dependency && p.NumberOfFactors() <= sentence.ParentID {
		log.Fatalf("extract_candidates: corpus has %d factors, dependency mode needs at least %d (syntactic annotations)", p.NumberOfFactors(), sentence.ParentID+1)
	}

	pe, err := candidate.NewPlainExtractor(o.order, p.NumberOfFactors(), o.dependency, min, max)
	if err != nil {
		log.Fatalf("extract_candidates: %v", err)
	}

	var cp *checkpoint.Store
	if o.checkpointPath != "" {
		cp, err = checkpoint.Open(o.checkpointPath)
		if err != nil {
			log.Fatalf("extract_candidates: %v", err)
		}
		defer cp.Close()
	}

	var bar *progress.Bar
	if o.progressBar && !o.quiet {
		bar = progress.New("extract_candidates", o.corpus)
	}

	ctx, stopWatch := config.WatchShutdown()
	defer stopWatch()

	sentencesRead := 0
	linesDone := 0
	if cp != nil {
		linesDone, err = cp.LinesDone(o.corpus)
		if err != nil {
			log.Fatalf("extract_candidates: %v", err)
		}
	}

	interrupted := false
	for i := 0; !p.EndOfFile(); i++ {
		bar.Add(p.LastLineBytes())
		if i >= linesDone {
			n := p.NumberOfTokens()
			for j := 0; j < n; j++ {
				tok := p.NextToken()
				if tok == "" {
					continue
				}
				if err := pe.AddToken(tok); err != nil {
					log.Fatalf("extract_candidates: line %d: %v", i+1, err)
				}
			}
			pe.ComputeCandidatesSentence()
			sentencesRead++

			if cp != nil && i%1000 == 0 {
				if err := cp.MarkLine(o.corpus, i+1); err != nil {
					log.Printf("extract_candidates: checkpoint: %v", err)
				}
			}
		}
		p.NextLine()

		select {
		case <-ctx.Done():
			interrupted = true
		default:
		}
		if interrupted {
			break
		}
	}

	if interrupted {
		bar.Wait()
		if cp != nil {
			if err := cp.MarkLine(o.corpus, linesDone+sentencesRead); err != nil {
				log.Printf("extract_candidates: checkpoint: %v", err)
			}
		}
		log.Printf("extract_candidates: interrupted after %d sentences, checkpoint flushed", sentencesRead)
		os.Exit(1)
	}
	bar.Wait()

	if o.lemmaRegex != "" && p.NumberOfFactors() > sentence.LEMMA {
		patterns, err := candidate.CompilePatterns(o.lemmaRegex, o.order)
		if err != nil {
			log.Fatalf("extract_candidates: %v", err)
		}
		pe.Store.RegexpFilter(sentence.LEMMA, patterns, false)
	}
	if o.tagRegex != "" && p.NumberOfFactors() > sentence.TAG {
		patterns, err := candidate.CompilePatterns(o.tagRegex, o.order)
		if err != nil {
			log.Fatalf("extract_candidates: %v", err)
		}
		pe.Store.RegexpFilter(sentence.TAG, patterns, false)
	}
	if o.freqFilter != "" {
		fmin, fmax, err := candidate.ParseRange(o.freqFilter)
		if err != nil {
			log.Fatalf("extract_candidates: %v", err)
		}
		pe.Store.FrequencyFilter(fmin, fmax, false)
	}

	if err := pe.Store.WriteToFile(o.output); err != nil {
		log.Fatalf("extract_candidates: %v", err)
	}

	if cp != nil {
		if err := cp.MarkLine(o.corpus, linesDone+sentencesRead); err != nil {
			log.Printf("extract_candidates: checkpoint: %v", err)
		}
	}

	if o.statsPath != "" {
		s := runstats.Summary{
			Command:          "extract_candidates",
			StartedAt:        started,
			FinishedAt:       time.Now(),
			SentencesRead:    sentencesRead,
			CandidatesKept:   pe.Store.Len(),
			TotalOccurrences: totalOccurrences(pe),
		}
		if err := runstats.WriteFile(o.statsPath, s); err != nil {
			log.Printf("extract_candidates: %v", err)
		}
	}

	log.Printf("extract_candidates: wrote %d candidates to %s", pe.Store.Len(), o.output)
}

func totalOccurrences(pe *candidate.PlainExtractor) int {
	total := 0
	for _, c := range pe.Store.All() {
		total += c.Frequency()
	}
	return total
}

