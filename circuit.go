package quditcirq

// Circuit is an append-only sequence of gate and measurement steps
// over nq qudits of dimension d and nc classical dits. The
// configuration is fixed at construction; steps are only ever added,
// never removed or reordered. A circuit bound to an Engine must not be
// mutated while the engine is live.
type Circuit struct {
	nq, nc, d int
	name      string
	measured  []bool

	gates        []GateStep
	measurements []MeasureStep
	stepTypes    []StepType

	cache   *MatrixCache
	catalog *Catalog

	count            map[string]int
	measurementCount map[string]int
}

// New constructs a circuit with nq qudits, nc classical dits, and
// qudit dimension d, using the standard gate catalog for d.
func New(nq, nc, d int, name string) (*Circuit, error) {
	return NewWithCatalog(nq, nc, d, name, StandardCatalog(d))
}

// NewWithCatalog constructs a circuit with an explicit gate catalog,
// used for display-name derivation. The catalog is treated as
// read-only for the circuit's lifetime.
func NewWithCatalog(nq, nc, d int, name string, cat *Catalog) (*Circuit, error) {
	if nq == 0 {
		return nil, &BuildError{Op: "New", Step: 0, Err: ErrZeroSize}
	}
	if d < 2 {
		return nil, &BuildError{Op: "New", Step: 0, Err: ErrOutOfRange}
	}
	return &Circuit{
		nq:               nq,
		nc:               nc,
		d:                d,
		name:             name,
		measured:         make([]bool, nq),
		cache:            NewMatrixCache(),
		catalog:          cat,
		count:            make(map[string]int),
		measurementCount: make(map[string]int),
	}, nil
}

// ─────────────────────────── getters ───────────────────────────

// NQ returns the number of qudits.
func (c *Circuit) NQ() int { return c.nq }

// NC returns the number of classical dits.
func (c *Circuit) NC() int { return c.nc }

// D returns the qudit dimension.
func (c *Circuit) D() int { return c.d }

// Name returns the circuit name.
func (c *Circuit) Name() string { return c.name }

// Measured reports whether qudit i has been measured by a previously
// built step.
func (c *Circuit) Measured(i int) bool { return c.measured[i] }

// MeasuredList returns the measured qudit indexes, ascending.
func (c *Circuit) MeasuredList() []int {
	var out []int
	for i, m := range c.measured {
		if m {
			out = append(out, i)
		}
	}
	return out
}

// NonMeasured returns the non-measured qudit indexes, ascending.
func (c *Circuit) NonMeasured() []int {
	var out []int
	for i, m := range c.measured {
		if !m {
			out = append(out, i)
		}
	}
	return out
}

// GateCount returns the total gate count across all names. FAN steps
// count once per target, so this may exceed the number of gate steps.
func (c *Circuit) GateCount() int {
	total := 0
	for _, n := range c.count {
		total += n
	}
	return total
}

// GateCountName returns the gate count for a display name, zero when
// the name never occurred.
func (c *Circuit) GateCountName(name string) int { return c.count[name] }

// MeasurementCount returns the total measurement count.
func (c *Circuit) MeasurementCount() int {
	total := 0
	for _, n := range c.measurementCount {
		total += n
	}
	return total
}

// MeasurementCountName returns the measurement count for a display
// name.
func (c *Circuit) MeasurementCountName(name string) int {
	return c.measurementCount[name]
}

// StepCount returns the total number of steps (gates plus
// measurements).
func (c *Circuit) StepCount() int { return len(c.stepTypes) }

// GateDepth is declared for parity with the builder surface but not
// implemented.
func (c *Circuit) GateDepth() (int, error) {
	return 0, c.buildErr("GateDepth", ErrNotImplemented)
}

// GateDepthName is declared for parity with the builder surface but
// not implemented.
func (c *Circuit) GateDepthName(name string) (int, error) {
	return 0, c.buildErr("GateDepthName", ErrNotImplemented)
}

// Cache returns the matrix cache backing the circuit's steps.
func (c *Circuit) Cache() *MatrixCache { return c.cache }

// Catalog returns the gate catalog used for name derivation.
func (c *Circuit) Catalog() *Catalog { return c.catalog }

// ─────────────────────── validation helpers ───────────────────────

func hasDuplicates(v []int) bool {
	seen := make(map[int]bool, len(v))
	for _, x := range v {
		if seen[x] {
			return true
		}
		seen[x] = true
	}
	return false
}

func intersects(a, b []int) bool {
	seen := make(map[int]bool, len(a))
	for _, x := range a {
		seen[x] = true
	}
	for _, x := range b {
		if seen[x] {
			return true
		}
	}
	return false
}

// checkQuditList validates a non-empty list of quantum positions:
// in range, duplicate-free, and not yet measured.
func (c *Circuit) checkQuditList(op string, v []int) error {
	if len(v) == 0 {
		return c.buildErr(op, ErrZeroSize)
	}
	for _, i := range v {
		if i >= c.nq || i < 0 {
			return c.buildErr(op, ErrOutOfRange)
		}
	}
	if hasDuplicates(v) {
		return c.buildErr(op, ErrDuplicates)
	}
	for _, i := range v {
		if c.measured[i] {
			return c.buildErr(op, ErrQuditAlreadyMeasured)
		}
	}
	return nil
}

// checkMatrix validates squareness and the expected dimension.
func (c *Circuit) checkMatrix(op string, U *Matrix, dim int) error {
	if !U.IsSquare() {
		return c.buildErr(op, ErrMatrixNotSquare)
	}
	if U.Rows != dim {
		return c.buildErr(op, ErrDimsMismatchMatrix)
	}
	return nil
}

// deriveName resolves the display name of a gate step: the caller's
// name when non-empty, the catalog's canonical name otherwise.
func (c *Circuit) deriveName(name string, U *Matrix) string {
	if name != "" {
		return name
	}
	return c.catalog.Name(U)
}

// deriveCtrlName prepends the control prefix ("CTRL" or "cCTRL"),
// joined with "-" when the catalog knows U, bare otherwise.
func (c *Circuit) deriveCtrlName(name string, U *Matrix, prefix string) string {
	if name != "" {
		return name
	}
	gateName := c.catalog.Name(U)
	if gateName == "" {
		return prefix
	}
	return prefix + "-" + gateName
}

// pushGate hashes U into the cache and appends the gate step; inc is
// the per-name count increment (|target| for FAN, 1 otherwise).
func (c *Circuit) pushGate(op string, U *Matrix, gs GateStep, inc int) error {
	h := U.Hash()
	if err := c.cache.Add(U, h); err != nil {
		return c.buildErr(op, err)
	}
	gs.Hash = h
	c.gates = append(c.gates, gs)
	c.stepTypes = append(c.stepTypes, StepGate)
	c.count[gs.Name] += inc
	return nil
}

// ───────────────────────── gate builders ─────────────────────────

// Gate applies U jointly on one, two, or three qudits.
func (c *Circuit) Gate(U *Matrix, qudits ...int) error {
	return c.GateNamed(U, "", qudits...)
}

// GateNamed is Gate with an explicit step name.
func (c *Circuit) GateNamed(U *Matrix, name string, qudits ...int) error {
	const op = "Gate"
	var gt GateType
	switch len(qudits) {
	case 1:
		gt = GateSingle
	case 2:
		gt = GateTwo
	case 3:
		gt = GateThree
	case 0:
		return c.buildErr(op, ErrZeroSize)
	default:
		return c.buildErr(op, ErrOutOfRange)
	}
	// a repeated index is a malformed joint target, not a duplicate list
	for _, i := range qudits {
		if i >= c.nq || i < 0 {
			return c.buildErr(op, ErrOutOfRange)
		}
	}
	if hasDuplicates(qudits) {
		return c.buildErr(op, ErrOutOfRange)
	}
	for _, i := range qudits {
		if c.measured[i] {
			return c.buildErr(op, ErrQuditAlreadyMeasured)
		}
	}
	if err := c.checkMatrix(op, U, ipow(c.d, len(qudits))); err != nil {
		return err
	}
	name = c.deriveName(name, U)
	target := append([]int(nil), qudits...)
	return c.pushGate(op, U, GateStep{Type: gt, Target: target, Name: name}, 1)
}

// GateFan applies the single-qudit gate U independently on every
// listed target. With no targets it fans over the current non-measured
// snapshot, which may be empty; the engine treats an empty FAN as a
// no-op.
func (c *Circuit) GateFan(U *Matrix, targets ...int) error {
	return c.GateFanNamed(U, "", targets...)
}

// GateFanNamed is GateFan with an explicit step name.
func (c *Circuit) GateFanNamed(U *Matrix, name string, targets ...int) error {
	const op = "GateFan"
	if len(targets) == 0 {
		targets = c.NonMeasured()
	} else if err := c.checkQuditList(op, targets); err != nil {
		return err
	}
	if err := c.checkMatrix(op, U, c.d); err != nil {
		return err
	}
	name = c.deriveName(name, U)
	target := append([]int(nil), targets...)
	return c.pushGate(op, U, GateStep{Type: GateFanType, Target: target, Name: name}, len(target))
}

// GateCustom applies the d^k × d^k gate U jointly on k target qudits.
func (c *Circuit) GateCustom(U *Matrix, targets []int) error {
	return c.GateCustomNamed(U, targets, "")
}

// GateCustomNamed is GateCustom with an explicit step name.
func (c *Circuit) GateCustomNamed(U *Matrix, targets []int, name string) error {
	const op = "GateCustom"
	if err := c.checkQuditList(op, targets); err != nil {
		return err
	}
	if err := c.checkMatrix(op, U, ipow(c.d, len(targets))); err != nil {
		return err
	}
	name = c.deriveName(name, U)
	target := append([]int(nil), targets...)
	return c.pushGate(op, U, GateStep{Type: GateCustomType, Target: target, Name: name}, 1)
}

// QFT is declared for parity with the builder surface but not
// implemented; nothing is appended.
func (c *Circuit) QFT(targets []int, swap bool) error {
	return c.buildErr("QFT", ErrNotImplemented)
}

// TFQ (inverse QFT) is declared for parity with the builder surface
// but not implemented; nothing is appended.
func (c *Circuit) TFQ(targets []int, swap bool) error {
	return c.buildErr("TFQ", ErrNotImplemented)
}

// CTRL applies the single-qudit gate U on every target, quantum
// controlled on the ctrl qudits: U^v fires when all controls read the
// same basis value v.
func (c *Circuit) CTRL(U *Matrix, ctrl, target []int) error {
	return c.CTRLNamed(U, ctrl, target, "")
}

// CTRLNamed is CTRL with an explicit step name.
func (c *Circuit) CTRLNamed(U *Matrix, ctrl, target []int, name string) error {
	const op = "CTRL"
	if err := c.checkQuditList(op, ctrl); err != nil {
		return err
	}
	if err := c.checkQuditList(op, target); err != nil {
		return err
	}
	if intersects(ctrl, target) {
		return c.buildErr(op, ErrOutOfRange)
	}
	if err := c.checkMatrix(op, U, c.d); err != nil {
		return err
	}
	var gt GateType
	switch {
	case len(ctrl) == 1 && len(target) == 1:
		gt = GateSingleCtrlSingleTarget
	case len(ctrl) == 1:
		gt = GateSingleCtrlMultipleTarget
	case len(target) == 1:
		gt = GateMultipleCtrlSingleTarget
	default:
		gt = GateMultipleCtrlMultipleTarget
	}
	name = c.deriveCtrlName(name, U, "CTRL")
	gs := GateStep{
		Type:   gt,
		Ctrl:   append([]int(nil), ctrl...),
		Target: append([]int(nil), target...),
		Name:   name,
	}
	return c.pushGate(op, U, gs, 1)
}

// CTRLCustom applies the d^k × d^k gate U jointly on k targets,
// quantum controlled on the ctrl qudits.
func (c *Circuit) CTRLCustom(U *Matrix, ctrl, target []int) error {
	return c.CTRLCustomNamed(U, ctrl, target, "")
}

// CTRLCustomNamed is CTRLCustom with an explicit step name.
func (c *Circuit) CTRLCustomNamed(U *Matrix, ctrl, target []int, name string) error {
	const op = "CTRLCustom"
	if err := c.checkQuditList(op, ctrl); err != nil {
		return err
	}
	if err := c.checkQuditList(op, target); err != nil {
		return err
	}
	if intersects(ctrl, target) {
		return c.buildErr(op, ErrOutOfRange)
	}
	if err := c.checkMatrix(op, U, ipow(c.d, len(target))); err != nil {
		return err
	}
	name = c.deriveCtrlName(name, U, "CTRL")
	gs := GateStep{
		Type:   GateCustomCtrl,
		Ctrl:   append([]int(nil), ctrl...),
		Target: append([]int(nil), target...),
		Name:   name,
	}
	return c.pushGate(op, U, gs, 1)
}

// checkDitList validates a non-empty, duplicate-free list of classical
// control positions.
func (c *Circuit) checkDitList(op string, v []int) error {
	if len(v) == 0 {
		return c.buildErr(op, ErrZeroSize)
	}
	for _, i := range v {
		if i >= c.nc || i < 0 {
			return c.buildErr(op, ErrOutOfRange)
		}
	}
	if hasDuplicates(v) {
		return c.buildErr(op, ErrDuplicates)
	}
	return nil
}

// CCTRL applies the single-qudit gate U on every target, classically
// controlled on the ctrlDits registers: U^v fires when all named dits
// hold the same value v.
func (c *Circuit) CCTRL(U *Matrix, ctrlDits, target []int) error {
	return c.CCTRLNamed(U, ctrlDits, target, "")
}

// CCTRLNamed is CCTRL with an explicit step name.
func (c *Circuit) CCTRLNamed(U *Matrix, ctrlDits, target []int, name string) error {
	const op = "CCTRL"
	if err := c.checkDitList(op, ctrlDits); err != nil {
		return err
	}
	if err := c.checkQuditList(op, target); err != nil {
		return err
	}
	if err := c.checkMatrix(op, U, c.d); err != nil {
		return err
	}
	var gt GateType
	switch {
	case len(ctrlDits) == 1 && len(target) == 1:
		gt = GateSingleCCtrlSingleTarget
	case len(ctrlDits) == 1:
		gt = GateSingleCCtrlMultipleTarget
	case len(target) == 1:
		gt = GateMultipleCCtrlSingleTarget
	default:
		gt = GateMultipleCCtrlMultipleTarget
	}
	name = c.deriveCtrlName(name, U, "cCTRL")
	gs := GateStep{
		Type:   gt,
		Ctrl:   append([]int(nil), ctrlDits...),
		Target: append([]int(nil), target...),
		Name:   name,
	}
	return c.pushGate(op, U, gs, 1)
}

// CCTRLCustom applies the d^k × d^k gate U jointly on k targets,
// classically controlled on the ctrlDits registers.
func (c *Circuit) CCTRLCustom(U *Matrix, ctrlDits, target []int) error {
	return c.CCTRLCustomNamed(U, ctrlDits, target, "")
}

// CCTRLCustomNamed is CCTRLCustom with an explicit step name.
func (c *Circuit) CCTRLCustomNamed(U *Matrix, ctrlDits, target []int, name string) error {
	const op = "CCTRLCustom"
	if err := c.checkDitList(op, ctrlDits); err != nil {
		return err
	}
	if err := c.checkQuditList(op, target); err != nil {
		return err
	}
	if err := c.checkMatrix(op, U, ipow(c.d, len(target))); err != nil {
		return err
	}
	name = c.deriveCtrlName(name, U, "cCTRL")
	gs := GateStep{
		Type:   GateCustomCCtrl,
		Ctrl:   append([]int(nil), ctrlDits...),
		Target: append([]int(nil), target...),
		Name:   name,
	}
	return c.pushGate(op, U, gs, 1)
}

// ─────────────────────── measurement builders ───────────────────────

// MeasureZ measures the target qudit in the computational basis and
// stores the outcome in classical register cReg.
func (c *Circuit) MeasureZ(target, cReg int) error {
	return c.MeasureZNamed(target, cReg, "")
}

// MeasureZNamed is MeasureZ with an explicit step name; the default
// name is "Z".
func (c *Circuit) MeasureZNamed(target, cReg int, name string) error {
	const op = "MeasureZ"
	if target >= c.nq || target < 0 {
		return c.buildErr(op, ErrOutOfRange)
	}
	if cReg >= c.nc || cReg < 0 {
		return c.buildErr(op, ErrOutOfRange)
	}
	if c.measured[target] {
		return c.buildErr(op, ErrQuditAlreadyMeasured)
	}
	if name == "" {
		name = "Z"
	}
	c.measured[target] = true
	c.measurements = append(c.measurements, MeasureStep{
		Type:   MeasureZType,
		Target: []int{target},
		CReg:   cReg,
		Name:   name,
	})
	c.stepTypes = append(c.stepTypes, StepMeasurement)
	c.measurementCount[name]++
	return nil
}

// MeasureV measures the target qudit in the basis (or rank-1
// projector set) given by the columns of V.
func (c *Circuit) MeasureV(V *Matrix, target, cReg int) error {
	return c.MeasureVNamed(V, target, cReg, "")
}

// MeasureVNamed is MeasureV with an explicit step name.
func (c *Circuit) MeasureVNamed(V *Matrix, target, cReg int, name string) error {
	const op = "MeasureV"
	if target >= c.nq || target < 0 {
		return c.buildErr(op, ErrOutOfRange)
	}
	if cReg >= c.nc || cReg < 0 {
		return c.buildErr(op, ErrOutOfRange)
	}
	if c.measured[target] {
		return c.buildErr(op, ErrQuditAlreadyMeasured)
	}
	if !V.IsSquare() {
		return c.buildErr(op, ErrMatrixNotSquare)
	}
	h := V.Hash()
	if err := c.cache.Add(V, h); err != nil {
		return c.buildErr(op, err)
	}
	name = c.deriveName(name, V)
	c.measured[target] = true
	c.measurements = append(c.measurements, MeasureStep{
		Type:   MeasureVType,
		Hashes: []uint64{h},
		Target: []int{target},
		CReg:   cReg,
		Name:   name,
	})
	c.stepTypes = append(c.stepTypes, StepMeasurement)
	c.measurementCount[name]++
	return nil
}

// MeasureVMany jointly measures the target qudits in the basis (or
// rank-1 projector set) given by the columns of V; every target is
// marked measured.
func (c *Circuit) MeasureVMany(V *Matrix, targets []int, cReg int) error {
	return c.MeasureVManyNamed(V, targets, cReg, "")
}

// MeasureVManyNamed is MeasureVMany with an explicit step name.
func (c *Circuit) MeasureVManyNamed(V *Matrix, targets []int, cReg int, name string) error {
	const op = "MeasureVMany"
	if err := c.checkQuditList(op, targets); err != nil {
		return err
	}
	if cReg >= c.nc || cReg < 0 {
		return c.buildErr(op, ErrOutOfRange)
	}
	if !V.IsSquare() {
		return c.buildErr(op, ErrMatrixNotSquare)
	}
	h := V.Hash()
	if err := c.cache.Add(V, h); err != nil {
		return c.buildErr(op, err)
	}
	name = c.deriveName(name, V)
	for _, t := range targets {
		c.measured[t] = true
	}
	c.measurements = append(c.measurements, MeasureStep{
		Type:   MeasureVManyType,
		Hashes: []uint64{h},
		Target: append([]int(nil), targets...),
		CReg:   cReg,
		Name:   name,
	})
	c.stepTypes = append(c.stepTypes, StepMeasurement)
	c.measurementCount[name]++
	return nil
}
