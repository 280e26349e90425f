package nfa

import (
	"fmt"

	"github.com/norkamer/icgs/decimal"
	"github.com/norkamer/icgs/pattern"
)

// fragment is a Thompson fragment: one entry state and a list of
// dangling exit states still needing a target. Concatenation epsilon-
// joins every exit of the left fragment to the entry of the right one;
// alternation routes through a fresh split state; the loop quantifiers
// (* + ?) add the appropriate back-edge and bypass.
type fragment struct {
	entry StateID
	exits []StateID
}

// AddPattern compiles pattern text under measure with the given weight,
// wraps it so that acceptance requires consuming the whole word (the
// anchoring spec.md §3/§4.3 mandates), and returns the new final state
// id. Fails with ErrFrozen if the automaton is frozen, with the
// underlying pattern.ErrPatternSyntax/ErrUnsupportedConstruct if parsing
// fails, or with ErrAmbiguousPattern if the exact same pattern text was
// already registered under the same measure.
func (n *NFA) AddPattern(measure MeasureID, patternText string, weight decimal.Decimal) (StateID, error) {
	if n.frozen {
		return 0, ErrFrozen
	}
	if n.seen[measure] == nil {
		n.seen[measure] = make(map[string]bool)
	}
	if n.seen[measure][patternText] {
		return 0, fmt.Errorf("%w: measure %q pattern %q already registered", ErrAmbiguousPattern, measure, patternText)
	}

	ast, err := pattern.Parse(patternText)
	if err != nil {
		return 0, err
	}

	frag, err := n.compile(ast)
	if err != nil {
		return 0, err
	}

	// Anchoring: join this pattern's fragment onto the shared start via
	// epsilon, and collapse all of its exits into one fresh final state.
	n.addEpsilon(n.start, frag.entry)
	final := n.newState()
	for _, exit := range frag.exits {
		n.addEpsilon(exit, final)
	}
	n.finals[final] = FinalInfo{Measure: measure, Weight: weight, Label: newFinalLabel()}
	n.seen[measure][patternText] = true

	return final, nil
}

// compile translates an AST node into a Thompson fragment, inside-out.
func (n *NFA) compile(node pattern.Node) (fragment, error) {
	switch v := node.(type) {
	case pattern.Empty:
		s := n.newState()
		return fragment{entry: s, exits: []StateID{s}}, nil

	case pattern.Literal:
		from := n.newState()
		to := n.newState()
		n.addTransition(from, to, literalMatcher{r: v.Char})
		return fragment{entry: from, exits: []StateID{to}}, nil

	case pattern.Class:
		from := n.newState()
		to := n.newState()
		items := make([]rangeMatcher, 0, len(v.Items))
		for _, it := range v.Items {
			items = append(items, rangeMatcher{lo: it.Lo, hi: it.Hi})
		}
		n.addTransition(from, to, classMatcher{items: items, negated: v.Negated})
		return fragment{entry: from, exits: []StateID{to}}, nil

	case pattern.Concat:
		return n.compileConcat(v.Items)

	case pattern.Alternate:
		return n.compileAlternate(v.Options)

	case pattern.Star:
		return n.compileStar(v.Elem)

	case pattern.Plus:
		return n.compilePlus(v.Elem)

	case pattern.Optional:
		return n.compileOptional(v.Elem)

	default:
		return fragment{}, fmt.Errorf("nfa: unknown AST node %T", node)
	}
}

func (n *NFA) compileConcat(items []pattern.Node) (fragment, error) {
	if len(items) == 0 {
		s := n.newState()
		return fragment{entry: s, exits: []StateID{s}}, nil
	}
	first, err := n.compile(items[0])
	if err != nil {
		return fragment{}, err
	}
	entry := first.entry
	exits := first.exits
	for _, item := range items[1:] {
		next, err := n.compile(item)
		if err != nil {
			return fragment{}, err
		}
		for _, e := range exits {
			n.addEpsilon(e, next.entry)
		}
		exits = next.exits
	}
	return fragment{entry: entry, exits: exits}, nil
}

func (n *NFA) compileAlternate(options []pattern.Node) (fragment, error) {
	split := n.newState()
	var exits []StateID
	for _, opt := range options {
		frag, err := n.compile(opt)
		if err != nil {
			return fragment{}, err
		}
		n.addEpsilon(split, frag.entry)
		exits = append(exits, frag.exits...)
	}
	return fragment{entry: split, exits: exits}, nil
}

func (n *NFA) compileStar(elem pattern.Node) (fragment, error) {
	frag, err := n.compile(elem)
	if err != nil {
		return fragment{}, err
	}
	entry := n.newState()
	exit := n.newState()
	n.addEpsilon(entry, frag.entry)
	n.addEpsilon(entry, exit) // zero occurrences
	for _, e := range frag.exits {
		n.addEpsilon(e, frag.entry) // loop back
		n.addEpsilon(e, exit)       // or stop here
	}
	return fragment{entry: entry, exits: []StateID{exit}}, nil
}

func (n *NFA) compilePlus(elem pattern.Node) (fragment, error) {
	frag, err := n.compile(elem)
	if err != nil {
		return fragment{}, err
	}
	exit := n.newState()
	for _, e := range frag.exits {
		n.addEpsilon(e, frag.entry) // loop back for 2nd, 3rd, ... occurrence
		n.addEpsilon(e, exit)       // or stop here
	}
	return fragment{entry: frag.entry, exits: []StateID{exit}}, nil
}

func (n *NFA) compileOptional(elem pattern.Node) (fragment, error) {
	frag, err := n.compile(elem)
	if err != nil {
		return fragment{}, err
	}
	entry := n.newState()
	n.addEpsilon(entry, frag.entry)
	exits := append([]StateID{entry}, frag.exits...)
	return fragment{entry: entry, exits: exits}, nil
}
