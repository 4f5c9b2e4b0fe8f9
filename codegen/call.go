package codegen

import "cmipsc/ast"

// maxCallArgs is the number of actual parameters the o32 convention
// supports without a stack-passed overflow area; this subset treats a
// fifth argument as unsupported (spec.md §4.5.2, §7).
const maxCallArgs = 4

// lowerCall implements function-call lowering exactly as staged in
// spec.md §4.5.2: GP setup for externs, spill-around-call of live
// temporaries through a synthetic scope, parameter lowering into
// $a0..$a3, the call itself, and live-temporary restoration.
func (g *Generator) lowerCall(fc *FunctionContext, n *ast.FunctionCall, dest string) error {
	params := n.Args.Params()
	if len(params) > maxCallArgs {
		return unsupported("FunctionCall", n.CalleeID, "more than four actual parameters is not supported")
	}

	isExtern := g.Env.IsExternFunction(n.CalleeID)
	if isExtern {
		g.emit("lui $28, %%hi(__gnu_local_gp)")
		g.emit("addiu $28, $28, %%lo(__gnu_local_gp)")
	}

	live := g.Regs.LiveSet()
	scopeID := g.Env.UniqueID("arg_scope")
	fc.EnterNamedScope(scopeID)

	spillNames := make([]string, len(live))
	for i, reg := range live {
		name := "?spill_" + reg[1:]
		spillNames[i] = name
		if _, err := fc.PlaceLocal(name); err != nil {
			return err
		}
		off, _ := fc.OffsetOf(name)
		g.emit("sw %s, %s", reg, FPOperand(off))
	}

	argRegs := make([]string, len(params))
	for i, p := range params {
		reg, err := g.Regs.RequestFree()
		if err != nil {
			return err
		}
		if err := g.lowerExpr(fc, p, reg); err != nil {
			return err
		}
		argRegs[i] = reg
	}
	for i, reg := range argRegs {
		g.emit("move $a%d, %s", i, reg)
	}
	for _, reg := range argRegs {
		if err := g.Regs.Release(reg); err != nil {
			return err
		}
	}

	if isExtern {
		tmp, err := g.Regs.RequestFree()
		if err != nil {
			return err
		}
		g.emit("lw %s, %%call16(%s)($28)", tmp, n.CalleeID)
		g.emit("move $25, %s", tmp)
		if err := g.Regs.Release(tmp); err != nil {
			return err
		}
		g.rawLine(".reloc 1f,R_MIPS_JALR,%s", n.CalleeID)
		g.rawLine("1:")
		g.emit("jalr $25")
		g.nop()
	} else {
		g.emit("jal %s", n.CalleeID)
		g.nop()
	}

	for i, reg := range live {
		off, _ := fc.OffsetOf(spillNames[i])
		g.emit("lw %s, %s", reg, FPOperand(off))
		g.nop()
	}

	g.emit("move %s, $v0", dest)
	return fc.ExitScope()
}
