package formula

// Lookup resolves a variable to its value. Any error marks the variable as
// undefined.
type Lookup func(name string) (float64, error)

// evaluator holds the two stacks of one evaluation.
type evaluator struct {
	values []float64
	ops    []byte
}

func (e *evaluator) push(v float64) { e.values = append(e.values, v) }

func (e *evaluator) pop() float64 {
	v := e.values[len(e.values)-1]
	e.values = e.values[:len(e.values)-1]
	return v
}

func (e *evaluator) topOp() byte {
	if len(e.ops) == 0 {
		return 0
	}
	return e.ops[len(e.ops)-1]
}

func (e *evaluator) popOp() byte {
	op := e.ops[len(e.ops)-1]
	e.ops = e.ops[:len(e.ops)-1]
	return op
}

// applyTop pops the pending operator and two operands and pushes the result.
func (e *evaluator) applyTop() error {
	op := e.popOp()
	right := e.pop()
	left := e.pop()
	result, err := apply(op, left, right)
	if err != nil {
		return err
	}
	e.push(result)
	return nil
}

// reduce applies the pending operator if it is one of ops.
func (e *evaluator) reduce(ops ...byte) error {
	top := e.topOp()
	for _, op := range ops {
		if top == op {
			return e.applyTop()
		}
	}
	return nil
}

func apply(op byte, left, right float64) (float64, error) {
	switch op {
	case '+':
		return left + right, nil
	case '-':
		return left - right, nil
	case '*':
		return left * right, nil
	default:
		if right == 0 {
			return 0, &EvalError{Err: ErrDivisionByZero}
		}
		return left / right, nil
	}
}

// Evaluate computes the formula, resolving variables through lookup. The
// returned error is an *EvalError. Evaluate does not modify f and is safe for
// concurrent use.
func (f *Formula) Evaluate(lookup Lookup) (float64, error) {
	e := &evaluator{
		values: make([]float64, 0, len(f.tokens)),
		ops:    make([]byte, 0, len(f.tokens)),
	}

	for _, tok := range f.tokens {
		switch tok.Type {
		case TokenNumber, TokenVariable:
			value := tok.Number
			if tok.Type == TokenVariable {
				v, err := resolve(lookup, tok.Text)
				if err != nil {
					return 0, err
				}
				value = v
			}
			e.push(value)
			if err := e.reduce('*', '/'); err != nil {
				return 0, err
			}

		case TokenOperator:
			op := tok.Text[0]
			if op == '+' || op == '-' {
				if err := e.reduce('+', '-'); err != nil {
					return 0, err
				}
			}
			e.ops = append(e.ops, op)

		case TokenLeftParen:
			e.ops = append(e.ops, '(')

		case TokenRightParen:
			if err := e.reduce('+', '-'); err != nil {
				return 0, err
			}
			e.popOp() // '('
			if err := e.reduce('*', '/'); err != nil {
				return 0, err
			}
		}
	}

	if err := e.reduce('+', '-'); err != nil {
		return 0, err
	}
	return e.pop(), nil
}

func resolve(lookup Lookup, name string) (float64, error) {
	if lookup == nil {
		return 0, &EvalError{Variable: name, Err: ErrUndefinedVariable}
	}
	v, err := lookup(name)
	if err != nil {
		return 0, &EvalError{Variable: name, Err: ErrUndefinedVariable, Cause: err}
	}
	return v, nil
}
