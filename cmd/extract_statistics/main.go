// Command extract_statistics replays a preloaded candidate list over a
// corpus, accumulating contingency-table and (optionally) context statistics
// for every candidate it recognizes.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/tombosc/mwer/internal/candidate"
	"github.com/tombosc/mwer/internal/checkpoint"
	"github.com/tombosc/mwer/internal/config"
	"github.com/tombosc/mwer/internal/corpus"
	"github.com/tombosc/mwer/internal/progress"
	"github.com/tombosc/mwer/internal/runstats"
	"github.com/tombosc/mwer/internal/sentence"
	"github.com/tombosc/mwer/internal/statistics"
	"github.com/tombosc/mwer/internal/wordtype"
)

// Candidate-list factor layout, distinct from the corpus token layout: the
// candidate file stores form/lemma, tag, local id, local parent id.
const (
	formOrLemmaC = 0
	tagC         = 1
	parentIDC    = 3
)

type options struct {
	corpus     string
	input      string
	output     string
	order      int
	dependency bool
	surface    bool
	adjacent   bool
	distRange  string
	tagRegex   string
	immediate  bool
	broad      bool

	progressBar    bool
	statsPath      string
	checkpointPath string
	envPath        string
	quiet          bool
}

func parseFlags() *options {
	o := &options{}
	flag.StringVar(&o.corpus, "corpus", "", "annotated corpus file (required)")
	flag.StringVar(&o.corpus, "c", "", "shorthand for -corpus")
	flag.StringVar(&o.input, "input", "", "preloaded candidate list (required)")
	flag.StringVar(&o.input, "i", "", "shorthand for -input")
	flag.StringVar(&o.output, "output", "", "statistics output file (required)")
	flag.StringVar(&o.output, "o", "", "shorthand for -output")
	flag.IntVar(&o.order, "n", 0, "candidate arity, 2..4 (required)")
	flag.BoolVar(&o.dependency, "dependency", false, "candidate list was extracted in dependency mode")
	flag.BoolVar(&o.dependency, "d", false, "shorthand for -dependency")
	flag.BoolVar(&o.surface, "surface", false, "candidate list was extracted in surface mode")
	flag.BoolVar(&o.surface, "s", false, "shorthand for -surface")
	flag.BoolVar(&o.adjacent, "adjacent", false, "restrict to adjacent n-grams (min=max=n-1)")
	flag.BoolVar(&o.adjacent, "a", false, "shorthand for -adjacent")
	flag.StringVar(&o.distRange, "distance-range", "", "surface distance window \"min-max\" or \"min\"")
	flag.StringVar(&o.distRange, "r", "", "shorthand for -distance-range")
	flag.StringVar(&o.tagRegex, "tag-filter", "", "one regex that a context member's tag must fully match to be counted")
	flag.StringVar(&o.tagRegex, "t", "", "shorthand for -tag-filter")
	flag.BoolVar(&o.immediate, "immediate", false, "accumulate left/right immediate context")
	flag.BoolVar(&o.broad, "broad", false, "accumulate sentence-wide broad context")

	flag.BoolVar(&o.progressBar, "progress", true, "show a byte-based progress bar")
	flag.StringVar(&o.statsPath, "stats", "", "write a JSON run summary to this path (optional)")
	flag.StringVar(&o.checkpointPath, "checkpoint", "", "bbolt resume ledger path (optional)")
	flag.StringVar(&o.envPath, "env", ".env", "dotenv file to load once flags are parsed, silently skipped if absent")
	flag.BoolVar(&o.quiet, "quiet", false, "suppress the banner and progress output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -c corpus -i candidates -o output -n N (-d|-s) [options]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	return o
}

func validate(o *options) error {
	if o.input == "" {
		return fmt.Errorf("missing required -input")
	}
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
		fmt.Fprintln(os.Stderr, "extract_statistics:", err)
		flag.Usage()
		os.Exit(2)
	}

	min, max, err := resolveRange(o)
	if err != nil {
		log.Fatalf("extract_statistics: %v", err)
	}

	var tagFilter *regexp.Regexp
	if o.tagRegex != "" {
		tagFilter, err = regexp.Compile(o.tagRegex)
		if err != nil {
			log.Fatalf("extract_statistics: invalid -tag-filter: %v", err)
		}
	}

	config.PrintBanner("extract_statistics", o.quiet,
		fmt.Sprintf("corpus=%s input=%s output=%s n=%d dependency=%v range=[%d,%d] immediate=%v broad=%v",
			o.corpus, o.input, o.output, o.order, o.dependency, min, max, o.immediate, o.broad))

	started := time.Now()

	candidatesParser, err := corpus.Open(o.input, sentence.SepWords, sentence.SepFactors, sentence.SepSections)
	if err != nil {
		log.Fatalf("extract_statistics: %v", err)
	}
	defer candidatesParser.Close()
	nFactorsCandidates := candidatesParser.NumberOfFactors()

	textParser, err := corpus.Open(o.corpus, sentence.SepWords, sentence.SepFactors, 0)
	if err != nil {
		log.Fatalf("extract_statistics: %v", err)
	}
	defer textParser.Close()

	se, err := statistics.New(o.order, textParser.NumberOfFactors(), min, max, o.dependency, o.immediate, o.broad, tagFilter)
	if err != nil {
		log.Fatalf("extract_statistics: %v", err)
	}

	candidatesLoaded := 0
	for !candidatesParser.EndOfFile() {
		strTypes := candidatesParser.NextSection()
		if len(strTypes) == 0 {
			candidatesParser.NextLine()
			continue
		}

		types := make([]*wordtype.WordType, len(strTypes))
		var parentIDs []int
		for i, s := range strTypes {
			v := splitFactors(s)
			if nFactorsCandidates > tagC {
				types[i] = se.AddWordType(v[formOrLemmaC], v[tagC])
			} else {
				types[i] = se.AddWordType(v[formOrLemmaC], "")
			}
			if nFactorsCandidates > parentIDC {
				pid, err := strconv.Atoi(v[parentIDC])
				if err != nil {
					log.Fatalf("extract_statistics: candidate list: non-numeric parent id %q", v[parentIDC])
				}
				parentIDs = append(parentIDs, pid)
			}
		}

		se.AddCandidate(types, parentIDs)
		candidatesLoaded++
		candidatesParser.NextLine()
	}

	var cp *checkpoint.Store
	if o.checkpointPath != "" {
		cp, err = checkpoint.Open(o.checkpointPath)
		if err != nil {
			log.Fatalf("extract_statistics: %v", err)
		}
		defer cp.Close()
	}

	var bar *progress.Bar
	if o.progressBar && !o.quiet {
		bar = progress.New("extract_statistics", o.corpus)
	}

	ctx, stopWatch := config.WatchShutdown()
	defer stopWatch()

	linesDone := 0
	if cp != nil {
		linesDone, err = cp.LinesDone(o.corpus)
		if err != nil {
			log.Fatalf("extract_statistics: %v", err)
		}
	}

	sentencesRead := 0
	interrupted := false
	for i := 0; !textParser.EndOfFile(); i++ {
		bar.Add(textParser.LastLineBytes())
		if i >= linesDone {
			n := textParser.NumberOfTokens()
			for j := 0; j < n; j++ {
				tok := textParser.NextToken()
				if tok == "" {
					continue
				}
				if err := se.AddToken(tok); err != nil {
					log.Fatalf("extract_statistics: %v", err)
				}
			}
			se.UpdateStatistics()
			sentencesRead++

			if cp != nil && i%1000 == 0 {
				if err := cp.MarkLine(o.corpus, i+1); err != nil {
					log.Printf("extract_statistics: checkpoint: %v", err)
				}
			}
		}
		textParser.NextLine()

		select {
		case <-ctx.Done():
			interrupted = true
		default:
		}
		if interrupted {
			break
		}
	}
	bar.Wait()

	if cp != nil {
		if err := cp.MarkLine(o.corpus, linesDone+sentencesRead); err != nil {
			log.Printf("extract_statistics: checkpoint: %v", err)
		}
	}

	if interrupted {
		log.Printf("extract_statistics: interrupted after %d sentences, checkpoint flushed", sentencesRead)
		os.Exit(1)
	}

	se.Finish()

	if err := corpus.WriteString(o.output, se.WriteData()); err != nil {
		log.Fatalf("extract_statistics: %v", err)
	}

	if o.statsPath != "" {
		s := runstats.Summary{
			Command:          "extract_statistics",
			StartedAt:        started,
			FinishedAt:       time.Now(),
			SentencesRead:    sentencesRead,
			CandidatesKept:   candidatesLoaded,
			TotalOccurrences: se.N,
		}
		if err := runstats.WriteFile(o.statsPath, s); err != nil {
			log.Printf("extract_statistics: %v", err)
		}
	}

	log.Printf("extract_statistics: wrote statistics for %d candidates to %s", candidatesLoaded, o.output)
}

// splitFactors splits one candidate-list type token on the factor
// separator, the same "|"-delimited format corpus tokens use.
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
