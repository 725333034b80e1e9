// Package scorecalc implements the association-measure scoring engine: a
// small state machine fed one candidate's contingency table and contexts at
// a time, computing a configured list of integer-identified score formulas
// against that state. All arithmetic is float32, matching the statistics
// files' precision.
package scorecalc

import (
	"fmt"
	"math"
	"os"
)

// ContextSide selects which immediate-context multiset an AddToImmediateContext
// call populates.
type ContextSide int

const (
	Left ContextSide = iota
	Right
)

// Context is a type-name to smoothed-frequency multiset, as read back from a
// statistics file's context column.
type Context map[string]float32

// wordTypeSimplified is the per-type broad-context record built from AddType,
// used only by the broad-context score family.
type wordTypeSimplified struct {
	freq    float32
	context Context
}

type typeBinding struct {
	name string
	wts  *wordTypeSimplified
}

// Calculator is the scoring state machine. Construct once per run, call
// NewCandidate/NewCandidateTypes before each candidate's AddContingencyTable
// / AddToImmediateContext / AddToBroadContext / Compute sequence.
type Calculator struct {
	hasImmediate   bool
	hasBroad       bool
	scoresToCompute []int
	smoothingParam float32

	immediateContexts [2]Context
	broadContext      Context

	table []float32
	a, b, c, d         float32
	sa, sb, sc, sd     float32
	n                  float32
	pXY, pXStar, pStarY float32

	types           map[string]*wordTypeSimplified
	typesCandidates []typeBinding
	cx, cy          *Context

	scores map[int]func() float32
}

// New builds a Calculator and its score dispatch table. Unsupported ids in
// toCompute are registered as null stubs that return 0, with one diagnostic
// line per unsupported id (never a fatal error).
func New(immediate, broad bool, toCompute []int, smoothingParam float32) *Calculator {
	c := &Calculator{
		hasImmediate:    immediate,
		hasBroad:        broad,
		scoresToCompute: toCompute,
		smoothingParam:  smoothingParam,
		types:           make(map[string]*wordTypeSimplified),
		scores:          make(map[int]func() float32),
	}

	c.registerProbabilityScores()
	c.registerContingencyScores()
	if immediate {
		c.immediateContexts = [2]Context{make(Context), make(Context)}
		c.registerImmediateContextScores()
	}
	if broad {
		c.registerBroadContextScores()
	}

	for _, id := range toCompute {
		if _, ok := c.scores[id]; !ok {
			fmt.Fprintf(os.Stderr, "scorecalc: score %d not defined, replaced by null function\n", id)
			c.scores[id] = func() float32 { return 0 }
		}
	}
	return c
}

func fmin(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func fmax(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func log2(x float32) float32 { return float32(math.Log2(float64(x))) }
func fpow(x, y float32) float32 { return float32(math.Pow(float64(x), float64(y))) }
func fsqrt(x float32) float32 { return float32(math.Sqrt(float64(x))) }

func (c *Calculator) registerProbabilityScores() {
	c.scores[1] = func() float32 { return c.pXY }
	c.scores[2] = func() float32 { return c.pXY / c.pXStar }
	c.scores[3] = func() float32 { return c.pXY / c.pStarY }
	// Score 4 preserves the reference implementation's literal operator
	// precedence: log2(p_xy / p_x_star * p_star_y), not the textbook
	// log2(p_xy / (p_x_star * p_star_y)).
	c.scores[4] = func() float32 { return log2(c.pXY / c.pXStar * c.pStarY) }
	c.scores[5] = func() float32 { return log2(fpow(c.pXY, 2) / c.pXStar * c.pStarY) }
	c.scores[6] = func() float32 {
		return log2(fpow(c.pXY, 2)/(c.pXStar*c.pStarY)) + log2(c.pXY)
	}
	c.scores[7] = func() float32 { return 2 * c.a / (c.sb + c.sc) }
	c.scores[8] = func() float32 { return 2 * c.sa * c.pXY / (c.sb + c.sc) }
	c.scores[9] = func() float32 {
		return log2(fpow(c.pXY, 2)/c.pXStar*c.pStarY) * log2(c.a)
	}
	c.scores[44] = func() float32 { // Phi
		return (c.pXY - c.pXStar*c.pStarY) /
			fsqrt(c.pXStar * c.pStarY * (1 - c.pXStar) * (1 - c.pStarY))
	}
}

func (c *Calculator) registerContingencyScores() {
	c.scores[17] = func() float32 { return c.a / (c.a + c.b + c.c + c.d) } // Russel-Rao
	c.scores[18] = func() float32 { return (c.a + c.d) / (c.a + c.b + c.c + c.d) } // Sokal-Michiner
	c.scores[19] = func() float32 { return (c.a + c.d) / (c.a + 2*c.b + 2*c.c + c.d) } // Rogers-Tanimoto
	c.scores[20] = func() float32 { return (c.a + c.d) - (c.b+c.c)/(c.a+c.b+c.c+c.d) } // Hamann
	c.scores[21] = func() float32 { return (c.b + c.c) / (c.a + c.d) } // Third Sokal-Sneath
	c.scores[22] = func() float32 { return c.a / (c.a + c.b + c.c) } // Jaccard
	c.scores[23] = func() float32 { return c.sa / (c.sb + c.sc) } // First Kulczynski
	c.scores[24] = func() float32 { return c.a / (c.a + 2*(c.b+c.c)) } // Second Sokal-Sneath
	c.scores[25] = func() float32 { return 0.5 * (c.a/(c.a+c.b) + c.a/(c.a+c.c)) } // Second Kulczynski
	c.scores[26] = func() float32 { // Fourth Sokal-Sneath
		return 0.25 * (c.a/(c.a+c.b) + c.a/(c.a+c.c) + c.d/(c.d+c.b) + c.d/(c.d+c.c))
	}
	c.scores[27] = func() float32 { return c.sa * c.sd / (c.sb * c.sc) } // odds ratio
	c.scores[28] = func() float32 { // Yule's omega
		return (fsqrt(c.sa*c.sd) - fsqrt(c.sb*c.sc)) / (fsqrt(c.sa*c.sd) + fsqrt(c.sb*c.sc))
	}
	c.scores[29] = func() float32 { return (c.a*c.d - c.b*c.c) / (c.a*c.d + c.b*c.c) } // Yule's Q
	c.scores[30] = func() float32 { return c.a / fsqrt((c.a+c.b)*(c.a+c.c)) } // Driver-Kroeber
	c.scores[31] = func() float32 { // Fifth Sokal-Sneath
		return c.a * c.d / fsqrt((c.a+c.b)*(c.a+c.c)*(c.d+c.b)*(c.d+c.c))
	}
	c.scores[32] = func() float32 { // Pearson
		return (c.a*c.d - c.b*c.c) / fsqrt((c.a+c.b)*(c.a+c.c)*(c.d+c.b)*(c.d+c.c))
	}
	c.scores[33] = func() float32 { // Baroni-Urbani
		s := fsqrt(c.a * c.d)
		return (c.a + s) / (c.a + c.b + c.c + s)
	}
	c.scores[34] = func() float32 { return c.a / fmax(c.a+c.b, c.a+c.c) } // Braun-Blanquet
	c.scores[35] = func() float32 { return c.a / fmin(c.a+c.b, c.a+c.c) } // Simpson
	c.scores[36] = func() float32 { // Michael
		return 4 * (c.a*c.d - c.b*c.c) / (fpow(c.a+c.d, 2) + fpow(c.b+c.c, 2))
	}
	c.scores[37] = func() float32 { return 2 * c.a / (2*c.b*c.c + c.a*c.b + c.a*c.c) } // Mountford
	c.scores[38] = func() float32 { // Fager
		return c.a/fsqrt((c.a+c.b)*(c.a+c.c)) - 0.5*fmax(c.b, c.c)
	}
	c.scores[39] = func() float32 { // unigram subtuples
		return log2((c.sa*c.sd)/(c.sb*c.sc)) -
			3.29*fsqrt(1/c.sa+1/c.sb+1/c.sc+1/c.sd)
	}
	c.scores[40] = func() float32 { // U cost
		return log2(1 + (fmin(c.b, c.c)+c.a)/(fmax(c.b, c.c)+c.a))
	}
	c.scores[41] = func() float32 { // S cost
		return fpow(log2(1+fmin(c.sb, c.sc)/(c.sa+1)), -0.5)
	}
	c.scores[42] = func() float32 { // R cost
		return log2(1+c.a/(c.a+c.b)) * log2(1+c.a/(c.a+c.c))
	}
	c.scores[43] = func() float32 { // T combined cost
		return fsqrt(c.scores[40]() * c.scores[41]() * c.scores[42]())
	}
}

func (c *Calculator) registerImmediateContextScores() {
	diffProductLog := func(x, freq, contextSize float32) float32 {
		p := freq / contextSize
		return x - p*log2(p)
	}
	c.scores[57] = func() float32 { // left entropy
		cl := c.immediateContexts[Left]
		sum := float32(0)
		for _, f := range cl {
			sum = diffProductLog(sum, f, float32(len(cl)))
		}
		return sum
	}
	c.scores[58] = func() float32 { // right entropy
		cr := c.immediateContexts[Right]
		sum := float32(0)
		for _, f := range cr {
			sum = diffProductLog(sum, f, float32(len(cr)))
		}
		return sum
	}
	c.scores[59] = func() float32 { // left divergence
		cl := c.immediateContexts[Left]
		sum := c.pXStar * log2(c.pXStar)
		for _, f := range cl {
			sum = diffProductLog(sum, f, float32(len(cl)))
		}
		return sum
	}
	c.scores[60] = func() float32 { // right divergence
		cr := c.immediateContexts[Right]
		sum := c.pStarY * log2(c.pStarY)
		for _, f := range cr {
			sum = diffProductLog(sum, f, float32(len(cr)))
		}
		return sum
	}
}

func (c *Calculator) registerBroadContextScores() {
	c.scores[62] = func() float32 { // reverse cross entropy
		sum := float32(0)
		for name, freq := range c.broadContext {
			p := float32(0)
			if v, ok := (*c.cx)[name]; ok {
				p = v
			}
			sum += (freq / float32(len(*c.cy))) * log2((p+c.smoothingParam)/float32(len(*c.cx)))
		}
		return -sum
	}
	c.scores[68] = func() float32 { // reverse confusion probability
		t1 := c.typesCandidates[0].name
		t2 := c.typesCandidates[1].name
		sum := float32(0)
		for name, freq := range c.broadContext {
			wts, ok := c.types[name]
			if !ok {
				continue
			}
			f1, ok1 := wts.context[t1]
			f2, ok2 := wts.context[t2]
			if !ok1 || !ok2 {
				continue
			}
			size := float32(len(wts.context))
			sum += (f1 / size) * (f2 / size) * freq
		}
		return sum / c.pStarY
	}
	c.scores[75] = func() float32 { // phrase-word co-occurrence
		fx := c.broadContext[c.typesCandidates[0].name]
		fy := c.broadContext[c.typesCandidates[1].name]
		return 0.5 * (fx/c.a + fy/c.a)
	}
	c.scores[77] = func() float32 { // mean boolean cosine
		cx := c.typesCandidates[0].wts.context
		cy := c.typesCandidates[1].wts.context
		return 0.5 * (cosBool(cx, c.broadContext) + cosBool(cy, c.broadContext))
	}
	c.scores[81] = func() float32 { // mean TF dice
		cx := c.typesCandidates[0].wts.context
		cy := c.typesCandidates[1].wts.context
		return 0.5 * (c.diceTF(cx, c.broadContext) + c.diceTF(cy, c.broadContext))
	}
}

// intersectContexts returns the paired values for keys present in both
// contexts.
func intersectContexts(c1, c2 Context) (v1, v2 []float32) {
	for k, f1 := range c1 {
		if f2, ok := c2[k]; ok {
			v1 = append(v1, f1)
			v2 = append(v2, f2)
		}
	}
	return v1, v2
}

// cosBool computes cos(C1, C2) with boolean weighting: occurrence presence,
// not frequency, drives both the inner product and the norms.
func cosBool(c1, c2 Context) float32 {
	v1, _ := intersectContexts(c1, c2)
	product := float32(len(v1))
	if product == 0 {
		return 0
	}
	normX := fsqrt(float32(len(c1)))
	normY := fsqrt(float32(len(c2)))
	return product / (normX * normY)
}

// diceTF computes dice(C1, C2) with term-frequency weighting.
func (c *Calculator) diceTF(c1, c2 Context) float32 {
	v1, v2 := intersectContexts(c1, c2)
	product := float32(0)
	for i := range v1 {
		product += v1[i] * v2[i]
	}
	if product == 0 {
		return 0
	}
	sqNormX := float32(0)
	for _, v := range v1 {
		sqNormX += v * v
	}
	sqNormY := float32(0)
	for _, v := range v2 {
		sqNormY += v * v
	}
	return 2 * product / (sqNormX + sqNormY + c.smoothingParam)
}

// NewCandidate resets per-candidate buffers ahead of a unigram or a candidate
// with no bound type identities.
func (c *Calculator) NewCandidate() {
	c.broadContext = make(Context)
	if c.hasImmediate {
		c.immediateContexts = [2]Context{make(Context), make(Context)}
	}
}

// NewCandidateTypes resets per-candidate buffers and binds wordTypes (in
// slot order) to their previously registered AddType entries, as required by
// the broad-context score family.
func (c *Calculator) NewCandidateTypes(wordTypes []string) {
	c.NewCandidate()
	c.typesCandidates = make([]typeBinding, len(wordTypes))
	for i, name := range wordTypes {
		wts := c.types[name]
		if wts == nil {
			fmt.Fprintf(os.Stderr, "scorecalc: word type %q not found\n", name)
		}
		c.typesCandidates[i] = typeBinding{name: name, wts: wts}
	}
	if len(c.typesCandidates) >= 2 {
		c.cx = &c.typesCandidates[0].wts.context
		c.cy = &c.typesCandidates[1].wts.context
	}
}

// AddContingencyTable sets the current candidate's contingency cells and
// derives the probability and smoothed-probability state every score reads.
func (c *Calculator) AddContingencyTable(cells []int) {
	c.table = make([]float32, len(cells))
	for i, v := range cells {
		c.table[i] = float32(v)
	}
	c.a, c.b, c.c, c.d = c.table[0], c.table[1], c.table[2], c.table[3]
	c.n = c.a + c.b + c.c + c.d

	c.sa = c.a + c.smoothingParam
	c.sb = c.b + c.smoothingParam
	c.sc = c.c + c.smoothingParam
	c.sd = c.d + c.smoothingParam
	if c.sb == c.b || c.sc == c.c {
		fmt.Fprintln(os.Stderr, "scorecalc: smoothing parameter too low: smoothed value equals unsmoothed value")
	}

	c.pXY = c.a / c.n
	c.pXStar = (c.a + c.b) / c.n
	c.pStarY = (c.a + c.c) / c.n
}

// AddToImmediateContext populates the LEFT or RIGHT immediate-context
// multiset for the current candidate.
func (c *Calculator) AddToImmediateContext(side ContextSide, types []string, freqs []int) {
	for i, t := range types {
		c.immediateContexts[side][t] = float32(freqs[i])
	}
}

// AddToBroadContext populates the broad-context multiset for the current
// candidate.
func (c *Calculator) AddToBroadContext(types []string, freqs []int) {
	for i, t := range types {
		c.broadContext[t] = float32(freqs[i])
	}
}

// AddType registers a word type's global frequency and broad context, as
// read back from the unigram block of a statistics file.
func (c *Calculator) AddType(name string, freq int, contextNames []string, contextFreqs []int) {
	wts := &wordTypeSimplified{freq: float32(freq), context: make(Context)}
	for i, n := range contextNames {
		wts.context[n] = float32(contextFreqs[i])
	}
	c.types[name] = wts
}

// Compute returns one float32 per configured score id, in the order
// supplied to New.
func (c *Calculator) Compute() []float32 {
	res := make([]float32, len(c.scoresToCompute))
	for i, id := range c.scoresToCompute {
		res[i] = c.scores[id]()
	}
	return res
}

// MaxRequestedID returns the highest score id configured (0 if none).
func (c *Calculator) MaxRequestedID() int {
	max := 0
	for _, id := range c.scoresToCompute {
		if id > max {
			max = id
		}
	}
	return max
}
