package signature

import "remold/internal/ast"

// rules captures how one manifest kind interprets declaration names.
// singleton declarations are expected at most once per document and match
// on name alone; grouping declarations match on their run of leading
// literal labels.
type rules struct {
	singleton map[string]bool
	grouping  map[string]bool
}

func (r rules) signature(n *ast.Node) Signature {
	if n == nil {
		return None()
	}
	switch n.Kind {
	case ast.KindAssignment:
		// receiver.field = value matches on (call, field, receiver-path);
		// unresolvable receivers keep opaque identity.
		if n.Receiver == "" || n.Name == "" {
			return None()
		}
		return Of("call", n.Name, n.Receiver)

	case ast.KindCall:
		if n.Name == "" {
			return None()
		}
		if r.singleton[n.Name] && n.Receiver == "" {
			return Of(n.Name)
		}
		if r.grouping[n.Name] && n.Receiver == "" {
			labels := n.LeadingLiterals()
			if len(labels) == 0 {
				return None()
			}
			return Of(append([]string{n.Name}, labels...)...)
		}
		if lit, ok := n.FirstLiteral(); ok && n.Receiver == "" {
			return Of(n.Name, lit)
		}
		// Receiver calls without a literal argument still carry a stable
		// identity through their receiver path (Gem::Specification.new).
		if n.Receiver != "" {
			return Of("call", n.Name, n.Receiver)
		}
	}
	return None()
}

// Gemfile computes signatures for dependency manifest statements: source
// and ruby are singletons, group matches on its label list, gem and
// eval_gemfile on their literal first argument.
func Gemfile(n *ast.Node) Signature {
	return rules{
		singleton: map[string]bool{"source": true, "ruby": true},
		grouping:  map[string]bool{"group": true},
	}.signature(n)
}

// Gemspec computes signatures for package spec statements. The interesting
// shapes are assignments on the spec object and the Gem::Specification.new
// block itself.
func Gemspec(n *ast.Node) Signature {
	return rules{}.signature(n)
}

// Rakefile computes signatures for build-task statements: task, desc,
// namespace and require all match on their literal first argument through
// the default rule.
func Rakefile(n *ast.Node) Signature {
	return rules{}.signature(n)
}

// Appraisals computes signatures for test-matrix statements; appraise
// blocks match on their literal matrix name.
func Appraisals(n *ast.Node) Signature {
	return rules{}.signature(n)
}
