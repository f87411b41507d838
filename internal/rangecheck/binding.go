package rangecheck

// DefaultUnsignedType is the type name whose parameters get the full domain.
const DefaultUnsignedType = "uint"

// Binding is what is known about a local variable: a concrete range, the
// name of another variable it was initialized from, or nothing at all.
type Binding struct {
	Range      Range
	Dependency string
	// Unknown marks a declaration whose value cannot be derived. It hides
	// parameters and earlier declarations of the same name.
	Unknown bool
}

// Literal returns a binding to a concrete range.
func Literal(r Range) Binding {
	return Binding{Range: r}
}

// DependsOn returns a binding that must be resolved through name.
func DependsOn(name string) Binding {
	return Binding{Dependency: name}
}

// Opaque returns the binding of a declaration with an underivable value.
func Opaque() Binding {
	return Binding{Unknown: true}
}

// IsDependency reports whether b refers to another variable.
func (b Binding) IsDependency() bool {
	return b.Dependency != ""
}

func (b Binding) String() string {
	if b.Unknown {
		return "unknown"
	}
	if b.IsDependency() {
		return "-> " + b.Dependency
	}
	return b.Range.String()
}

// Locals maps local variable names to their bindings.
type Locals map[string]Binding

// Params maps parameter names to the domain of their declared type.
type Params map[string]Range

// Tables holds both binding tables of a function.
type Tables struct {
	Params Params
	Locals Locals
}

// BuildParams records every parameter declared with unsignedType. Parameters
// of any other type are left out, so conditions using them cannot resolve.
func BuildParams(params []Param, unsignedType string) Params {
	if unsignedType == "" {
		unsignedType = DefaultUnsignedType
	}

	out := make(Params, len(params))
	for _, p := range params {
		if p.Name == "" || p.Name == "_" {
			continue
		}
		if p.Type != unsignedType {
			continue
		}
		out[p.Name] = FullDomain()
	}
	return out
}

// BuildLocals records the declarations among the given top-level statements.
// Nested blocks are not visited. A declaration whose initializer is neither
// an integer literal nor a plain name is recorded as opaque, and so is a
// destructuring one. A later declaration of the same name replaces the
// earlier one.
func BuildLocals(body []Stmt) Locals {
	out := make(Locals)
	for _, stmt := range body {
		decl, ok := stmt.(DeclStmt)
		if !ok || decl.Name == "" || decl.Name == "_" {
			continue
		}
		if decl.Destructured {
			out[decl.Name] = Opaque()
			continue
		}

		switch init := decl.Init.(type) {
		case IntLit:
			out[decl.Name] = Literal(Point(init.Value))
		case Ident:
			out[decl.Name] = DependsOn(init.Name)
		default:
			out[decl.Name] = Opaque()
		}
	}
	return out
}

// Build constructs both binding tables of fn.
func Build(fn Function, unsignedType string) Tables {
	return Tables{
		Params: BuildParams(fn.Params, unsignedType),
		Locals: BuildLocals(fn.Body),
	}
}
