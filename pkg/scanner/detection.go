package scanner

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// componentDecl is one component candidate found at the top level of a file.
type componentDecl struct {
	name string
	kind ComponentKind
	// fn is the render function; nil for class components.
	fn *ts.Node
	// class is the class declaration for class components.
	class *ts.Node
	// propsType is a props type given outside the render function's
	// parameter: FC<P>, forwardRef<R, P>, memo<P> or Component<P>.
	propsType *ts.Node
	// aliasOf names another candidate this one wraps, as in memo(Button).
	aliasOf string

	exported      bool
	defaultExport bool
}

// detectComponents lists the component candidates of a file in source order.
func detectComponents(root *ts.Node, idx *fileIndex) []*componentDecl {
	var found []*componentDecl
	byName := make(map[string]*componentDecl)
	add := func(c *componentDecl) {
		if c == nil {
			return
		}
		found = append(found, c)
		if c.name != "" {
			byName[c.name] = c
		}
	}

	for _, stmt := range namedChildren(root) {
		exported := stmt.Kind() == "export_statement"
		isDefault := isDefaultExport(stmt)
		decl := unwrapExport(stmt)

		if decl.Kind() == "export_statement" {
			// export default <expression>
			value := unwrapParens(decl.ChildByFieldName("value"))
			if value == nil {
				continue
			}
			if value.Kind() == "identifier" {
				if c, ok := byName[idx.text(value)]; ok {
					c.exported, c.defaultExport = true, true
				}
				continue
			}
			// export default function Name() {} may parse as an expression.
			if c := componentFromExpr(idx.text(value.ChildByFieldName("name")), value, nil, idx); c != nil {
				c.exported, c.defaultExport = true, true
				add(c)
			}
			continue
		}

		for _, c := range componentsFromDecl(decl, idx) {
			c.exported = c.exported || exported
			c.defaultExport = c.defaultExport || isDefault
			add(c)
		}
	}

	// memo(Button) reuses Button's render function and props.
	for _, c := range found {
		if c.aliasOf == "" {
			continue
		}
		if target, ok := byName[c.aliasOf]; ok && target != c {
			if c.fn == nil {
				c.fn = target.fn
			}
			if c.class == nil {
				c.class = target.class
			}
			if c.propsType == nil {
				c.propsType = target.propsType
			}
		}
	}
	return found
}

// pickComponent chooses the file's component: the default export, else the
// first exported candidate, else the first candidate.
func pickComponent(candidates []*componentDecl) *componentDecl {
	var firstExported *componentDecl
	for _, c := range candidates {
		if c.defaultExport {
			return c
		}
		if c.exported && firstExported == nil {
			firstExported = c
		}
	}
	if firstExported != nil {
		return firstExported
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return nil
}

func componentsFromDecl(decl *ts.Node, idx *fileIndex) []*componentDecl {
	switch decl.Kind() {
	case "function_declaration":
		name := idx.text(decl.ChildByFieldName("name"))
		if isPascalCase(name) && containsJSX(decl.ChildByFieldName("body")) {
			return []*componentDecl{{name: name, kind: ComponentKindFunction, fn: decl}}
		}
	case "class_declaration":
		if c := classComponent(decl, idx); c != nil {
			return []*componentDecl{c}
		}
	case "lexical_declaration", "variable_declaration":
		var out []*componentDecl
		for _, d := range namedChildren(decl) {
			if d.Kind() != "variable_declarator" {
				continue
			}
			name := idx.text(d.ChildByFieldName("name"))
			if !isPascalCase(name) {
				continue
			}
			value := unwrapParens(d.ChildByFieldName("value"))
			if c := componentFromExpr(name, value, d.ChildByFieldName("type"), idx); c != nil {
				out = append(out, c)
			}
		}
		return out
	}
	return nil
}

// componentFromExpr recognizes render functions and forwardRef/memo
// wrappers. anno is the declarator's type annotation, if any.
func componentFromExpr(name string, expr *ts.Node, anno *ts.Node, idx *fileIndex) *componentDecl {
	expr = unwrapParens(expr)
	if expr == nil {
		return nil
	}
	switch {
	case isFunctionNode(expr):
		annotated := fcPropsType(typeOf(anno), idx)
		if !containsJSX(expr.ChildByFieldName("body")) && annotated == nil {
			return nil
		}
		return &componentDecl{name: name, kind: ComponentKindFunction, fn: expr, propsType: annotated}

	case expr.Kind() == "class" || expr.Kind() == "class_expression":
		c := classComponent(expr, idx)
		if c != nil && name != "" {
			c.name = name
		}
		return c

	case expr.Kind() == "call_expression":
		callee := calleeName(expr, idx.source)
		if callee != "forwardRef" && callee != "memo" {
			return nil
		}
		args := namedChildren(expr.ChildByFieldName("arguments"))
		typeArgs := typeArguments(expr)
		c := &componentDecl{name: name, kind: ComponentKindMemo}
		if callee == "forwardRef" {
			c.kind = ComponentKindForwardRef
			if len(typeArgs) > 1 {
				c.propsType = typeArgs[1]
			}
		} else if len(typeArgs) > 0 {
			c.propsType = typeArgs[0]
		}
		if len(args) == 0 {
			return c
		}
		inner := unwrapParens(args[0])
		switch {
		case isFunctionNode(inner):
			c.fn = inner
		case inner.Kind() == "identifier":
			c.aliasOf = idx.text(inner)
		default:
			if wrapped := componentFromExpr(name, inner, nil, idx); wrapped != nil {
				c.fn, c.class, c.aliasOf = wrapped.fn, wrapped.class, wrapped.aliasOf
				if c.propsType == nil {
					c.propsType = wrapped.propsType
				}
			}
		}
		if c.propsType == nil {
			c.propsType = fcPropsType(typeOf(anno), idx)
		}
		return c
	}
	return nil
}

// fcPropsType extracts P from FC<P>, React.FC<P>, FunctionComponent<P>
// and VFC<P> annotations.
func fcPropsType(t *ts.Node, idx *fileIndex) *ts.Node {
	if t == nil || t.Kind() != "generic_type" {
		return nil
	}
	switch lastSegment(idx.text(t.ChildByFieldName("name"))) {
	case "FC", "FunctionComponent", "VFC", "VoidFunctionComponent", "ForwardRefRenderFunction":
		args := typeArguments(t)
		if len(args) > 0 {
			return args[len(args)-1]
		}
	}
	return nil
}

// classComponent recognizes classes extending Component or PureComponent.
func classComponent(decl *ts.Node, idx *fileIndex) *componentDecl {
	heritage := findChildByKind(decl, "class_heritage")
	if heritage == nil {
		return nil
	}
	// TypeScript wraps the superclass in an extends_clause; JavaScript
	// puts the expression directly under class_heritage.
	clause := findChildByKind(heritage, "extends_clause")
	if clause == nil {
		clause = heritage
	}
	var super *ts.Node
	for _, child := range namedChildren(clause) {
		if child.Kind() != "type_arguments" {
			super = child
			break
		}
	}
	if super == nil {
		return nil
	}
	switch lastSegment(stripTypeArgs(idx.text(super))) {
	case "Component", "PureComponent":
	default:
		return nil
	}
	c := &componentDecl{
		name:  idx.text(decl.ChildByFieldName("name")),
		kind:  ComponentKindClass,
		class: decl,
	}
	if args := typeArguments(clause); len(args) > 0 {
		c.propsType = args[0]
	}
	return c
}
