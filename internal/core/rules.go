package core

import (
	"fmt"

	"infracheck/internal/graph"
	"infracheck/internal/infracache"
	"infracheck/pkg/domain"
)

// Checker evaluates one validation rule against one object. Checkers are
// pure: they only read the cache and graph and never fail.
type Checker[T domain.Object] func(obj T, cache *infracache.InfraCache, g *graph.Graph) []domain.InfraError

// Rule is a named checker with the rules it depends on. A rule is skipped for
// an object when any of its dependencies reported an error on that object.
type Rule[T domain.Object] struct {
	Name      string
	Check     Checker[T]
	DependsOn []string
}

// Registry is the ordered list of rules applied to every object of one kind.
type Registry[T domain.Object] struct {
	kind  domain.ObjectType
	rules []Rule[T]
}

// NewRegistry constructs an empty registry for kind.
func NewRegistry[T domain.Object](kind domain.ObjectType) *Registry[T] {
	return &Registry[T]{kind: kind}
}

// Register appends a rule. Dependencies must already be registered, which
// keeps evaluation order compatible with them. Violations are programming
// errors and panic.
func (r *Registry[T]) Register(name string, check Checker[T], dependsOn ...string) *Registry[T] {
	if check == nil {
		panic(fmt.Sprintf("%s rule %q: nil checker", r.kind, name))
	}
	if r.index(name) >= 0 {
		panic(fmt.Sprintf("%s rule %q registered twice", r.kind, name))
	}
	for _, dep := range dependsOn {
		if r.index(dep) < 0 {
			panic(fmt.Sprintf("%s rule %q depends on unregistered rule %q", r.kind, name, dep))
		}
	}
	r.rules = append(r.rules, Rule[T]{Name: name, Check: check, DependsOn: dependsOn})
	return r
}

// Kind returns the object kind the registry validates.
func (r *Registry[T]) Kind() domain.ObjectType { return r.kind }

// Rules returns the registered rules in evaluation order.
func (r *Registry[T]) Rules() []Rule[T] {
	return append([]Rule[T](nil), r.rules...)
}

// Len returns the number of registered rules.
func (r *Registry[T]) Len() int { return len(r.rules) }

func (r *Registry[T]) index(name string) int {
	for i, rule := range r.rules {
		if rule.Name == name {
			return i
		}
	}
	return -1
}

// evaluate applies every rule to obj in order and flattens the results.
func (r *Registry[T]) evaluate(obj T, cache *infracache.InfraCache, g *graph.Graph) []domain.InfraError {
	var out []domain.InfraError
	var fired map[string]bool
	for _, rule := range r.rules {
		if blocked(rule.DependsOn, fired) {
			continue
		}
		errs := rule.Check(obj, cache, g)
		if len(errs) == 0 {
			continue
		}
		if fired == nil {
			fired = make(map[string]bool, len(r.rules))
		}
		fired[rule.Name] = true
		out = append(out, errs...)
	}
	return out
}

func blocked(deps []string, fired map[string]bool) bool {
	for _, dep := range deps {
		if fired[dep] {
			return true
		}
	}
	return false
}
