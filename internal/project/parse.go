package project

import "io"

// Command-line switches recognised by Parse.
const (
	SwitchConfiguration = "-c"
	SwitchBinary        = "-dll"
	SwitchLibrary       = "-lib"
)

// parser walks the token list once; pos only moves forward.
type parser struct {
	tokens []string
	pos    int
}

func (p *parser) more() bool {
	return p.pos < len(p.tokens)
}

func (p *parser) peek() string {
	return p.tokens[p.pos]
}

// require consumes the next token, failing with msg when input is exhausted.
func (p *parser) require(msg string) (string, error) {
	if !p.more() {
		return "", &ArgumentError{Msg: msg}
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, nil
}

// requireSwitch consumes the next token, which must equal literal.
func (p *parser) requireSwitch(literal, msg string) error {
	if !p.more() || p.peek() != literal {
		return &ArgumentError{Msg: msg}
	}
	p.pos++
	return nil
}

// Parse builds a Project from command-line tokens following
//
//	<name> <toolset> ( -c <cfg> <arch> ( -dll <path> | -lib <path> )* )*
//
// Artifact paths are checked against root. Warnings for configurations with
// no DLLs or no libs are written to out.
func Parse(tokens []string, root string, out io.Writer) (*Project, error) {
	p := &parser{tokens: tokens}

	name, err := p.require("Expected project name")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, &ArgumentError{Msg: "Expected project name"}
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	toolset, err := p.require("Expected toolset (e.g. v141, v140)")
	if err != nil {
		return nil, err
	}
	if toolset == "" {
		return nil, &ArgumentError{Msg: "Expected toolset (e.g. v141, v140)"}
	}

	b := NewBuilder(root, out, name, toolset)

	for p.more() {
		if err := p.requireSwitch(SwitchConfiguration, "Expected -c"); err != nil {
			return nil, err
		}
		cfgName, err := p.require("Expected configuration name")
		if err != nil {
			return nil, err
		}
		arch, err := p.require("Expected platform (e.g. x86, x64)")
		if err != nil {
			return nil, err
		}
		b.BeginConfiguration(cfgName, arch)

		if err := p.artifacts(b); err != nil {
			return nil, err
		}
	}

	return b.Project(), nil
}

// artifacts consumes -dll and -lib pairs until the next -c or end of input.
func (p *parser) artifacts(b *Builder) error {
	for p.more() {
		switch p.peek() {
		case SwitchConfiguration:
			return nil
		case SwitchBinary:
			p.pos++
			path, err := p.require("Expected DLL path")
			if err != nil {
				return err
			}
			if err := b.AddBinary(path); err != nil {
				return err
			}
		case SwitchLibrary:
			p.pos++
			path, err := p.require("Expected lib path")
			if err != nil {
				return err
			}
			if err := b.AddLibrary(path); err != nil {
				return err
			}
		default:
			return &ArgumentError{Msg: "Expected -dll, -lib or -c"}
		}
	}
	return nil
}
