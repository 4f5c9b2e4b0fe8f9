package codegen

import "cmipsc/ast"

// lowerStmt lowers one statement. Statement emitters take no
// destination register (spec.md §4.5).
func (g *Generator) lowerStmt(fc *FunctionContext, node ast.Node) error {
	switch n := node.(type) {
	case *ast.DeclarationList:
		return g.lowerDeclarationList(fc, n)

	case *ast.Return:
		return g.lowerReturn(fc, n)

	case *ast.Break:
		lbl, err := fc.BreakLabel()
		if err != nil {
			return err
		}
		g.emit("b %s", lbl)
		g.nop()
		return nil

	case *ast.Continue:
		lbl, err := fc.ContinueLabel()
		if err != nil {
			return err
		}
		g.emit("b %s", lbl)
		g.nop()
		return nil

	case *ast.If:
		return g.lowerIf(fc, n)

	case *ast.While:
		return g.lowerWhile(fc, n)

	case *ast.For:
		return g.lowerFor(fc, n)

	case *ast.Switch:
		return g.lowerSwitch(fc, n)

	case *ast.CompoundStatement:
		return g.lowerCompound(fc, n)

	case *ast.EmptyExpression:
		return nil

	default:
		// Any expression appearing directly as a statement: evaluate for
		// side effects and discard the result (spec.md §4.5.3).
		reg, err := g.Regs.RequestFree()
		if err != nil {
			return err
		}
		if err := g.lowerExpr(fc, node, reg); err != nil {
			return err
		}
		return g.Regs.Release(reg)
	}
}

func (g *Generator) lowerDeclarationList(fc *FunctionContext, list *ast.DeclarationList) error {
	for _, d := range list.Head.Decls() {
		if d.Var.Info == ast.VarArray {
			size, err := FoldConstant(d.Var.IndexOrSize)
			if err != nil {
				return err
			}
			if _, err := fc.ReserveArray(d.Var.ID, int(size)); err != nil {
				return err
			}
			continue
		}

		reg, err := g.Regs.RequestFree()
		if err != nil {
			return err
		}
		if d.Init != nil {
			if err := g.lowerExpr(fc, d.Init, reg); err != nil {
				return err
			}
		} else {
			g.emit("move %s, $0", reg)
		}
		if _, err := fc.PlaceLocal(d.Var.ID); err != nil {
			return err
		}
		off, _ := fc.OffsetOf(d.Var.ID)
		g.emit("sw %s, %s", reg, FPOperand(off))
		if err := g.Regs.Release(reg); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) lowerReturn(fc *FunctionContext, n *ast.Return) error {
	if n.Value != nil {
		reg, err := g.Regs.RequestFree()
		if err != nil {
			return err
		}
		if err := g.lowerExpr(fc, n.Value, reg); err != nil {
			return err
		}
		g.emit("move $v0, %s", reg)
		if err := g.Regs.Release(reg); err != nil {
			return err
		}
	}
	g.emit("b %s", fc.EpilogueLabel)
	g.nop()
	return nil
}

func (g *Generator) lowerIf(fc *FunctionContext, n *ast.If) error {
	elseLbl := g.Env.UniqueID("top_else")
	end := g.Env.UniqueID("end_if")

	reg, err := g.Regs.RequestFree()
	if err != nil {
		return err
	}
	if err := g.lowerExpr(fc, n.Cond, reg); err != nil {
		return err
	}
	g.emit("beqz %s, %s", reg, elseLbl)
	g.nop()
	if err := g.Regs.Release(reg); err != nil {
		return err
	}

	fc.EnterScope()
	if err := g.lowerStmt(fc, n.ThenBody); err != nil {
		return err
	}
	if err := fc.ExitScope(); err != nil {
		return err
	}
	g.emit("b %s", end)
	g.nop()

	g.label(elseLbl)
	fc.EnterScope()
	if n.ElseBody != nil {
		if err := g.lowerStmt(fc, n.ElseBody); err != nil {
			return err
		}
	}
	if err := fc.ExitScope(); err != nil {
		return err
	}
	g.label(end)
	return nil
}

func (g *Generator) lowerWhile(fc *FunctionContext, n *ast.While) error {
	top := g.Env.UniqueID("top_while")
	end := g.Env.UniqueID("end_while")

	g.label(top)
	reg, err := g.Regs.RequestFree()
	if err != nil {
		return err
	}
	if err := g.lowerExpr(fc, n.Cond, reg); err != nil {
		return err
	}
	g.emit("beqz %s, %s", reg, end)
	g.nop()
	if err := g.Regs.Release(reg); err != nil {
		return err
	}

	fc.PushWhile(end, top)
	fc.EnterScope()
	if err := g.lowerStmt(fc, n.Body); err != nil {
		return err
	}
	if err := fc.ExitScope(); err != nil {
		return err
	}
	if err := fc.PopWhile(); err != nil {
		return err
	}

	g.emit("b %s", top)
	g.nop()
	g.label(end)
	return nil
}

func (g *Generator) lowerFor(fc *FunctionContext, n *ast.For) error {
	fc.EnterScope()

	if _, isEmpty := n.Init.(*ast.EmptyExpression); !isEmpty {
		if err := g.lowerStmt(fc, n.Init); err != nil {
			return err
		}
	}

	top := g.Env.UniqueID("top_for")
	topIncrement := g.Env.UniqueID("top_increment")
	end := g.Env.UniqueID("end_for")

	g.label(top)

	if _, isEmpty := n.Cond.(*ast.EmptyExpression); !isEmpty {
		reg, err := g.Regs.RequestFree()
		if err != nil {
			return err
		}
		if err := g.lowerExpr(fc, n.Cond, reg); err != nil {
			return err
		}
		g.emit("beqz %s, %s", reg, end)
		g.nop()
		if err := g.Regs.Release(reg); err != nil {
			return err
		}
	}

	fc.PushFor(end, topIncrement)
	if err := g.lowerStmt(fc, n.Body); err != nil {
		return err
	}
	if err := fc.PopFor(); err != nil {
		return err
	}

	g.label(topIncrement)
	if _, isEmpty := n.Increment.(*ast.EmptyExpression); !isEmpty {
		reg, err := g.Regs.RequestFree()
		if err != nil {
			return err
		}
		if err := g.lowerExpr(fc, n.Increment, reg); err != nil {
			return err
		}
		if err := g.Regs.Release(reg); err != nil {
			return err
		}
	}
	g.emit("b %s", top)
	g.nop()
	g.label(end)

	return fc.ExitScope()
}

func (g *Generator) lowerSwitch(fc *FunctionContext, n *ast.Switch) error {
	testReg, err := g.Regs.RequestFree()
	if err != nil {
		return err
	}
	defReg, err := g.Regs.RequestFree()
	if err != nil {
		return err
	}
	g.emit("li %s, 1", defReg)

	if err := g.lowerExpr(fc, n.Test, testReg); err != nil {
		return err
	}

	end := g.Env.UniqueID("end_switch")
	topDefault := g.Env.UniqueID("top_default")

	hasDefault := false
	for _, c := range n.Body.Cases() {
		if _, ok := c.(*ast.Default); ok {
			hasDefault = true
			break
		}
	}
	defaultTarget := ""
	if hasDefault {
		defaultTarget = topDefault
	}
	fc.PushSwitch(end, defaultTarget)

	fc.EnterScope()
	for _, c := range n.Body.Cases() {
		switch cn := c.(type) {
		case *ast.Case:
			endCase := g.Env.UniqueID("end_case")
			if err := g.lowerExpr(fc, n.Test, testReg); err != nil {
				return err
			}
			labelReg, err := g.Regs.RequestFree()
			if err != nil {
				return err
			}
			labelVal, err := FoldConstant(cn.LabelExpr)
			if err != nil {
				return err
			}
			g.emit("li %s, %d", labelReg, labelVal)
			g.emit("bne %s, %s, %s", testReg, labelReg, endCase)
			g.nop()
			if err := g.Regs.Release(labelReg); err != nil {
				return err
			}
			g.emit("move %s, $0", defReg)
			for _, s := range cn.Body.Statements() {
				if err := g.lowerStmt(fc, s); err != nil {
					return err
				}
			}
			g.label(endCase)

		case *ast.Default:
			endDefault := g.Env.UniqueID("end_default")
			g.emit("b %s", endDefault)
			g.nop()
			g.label(topDefault)
			for _, s := range cn.Body.Statements() {
				if err := g.lowerStmt(fc, s); err != nil {
					return err
				}
			}
			g.emit("b %s", end)
			g.nop()
			g.label(endDefault)

		default:
			return internal("Switch", "", "case list entry is neither Case nor Default")
		}
	}
	if err := fc.ExitScope(); err != nil {
		return err
	}

	if hasDefault {
		g.emit("bnez %s, %s", defReg, topDefault)
		g.nop()
	}
	g.label(end)

	if err := fc.PopSwitch(); err != nil {
		return err
	}
	if err := g.Regs.Release(defReg); err != nil {
		return err
	}
	return g.Regs.Release(testReg)
}

func (g *Generator) lowerCompound(fc *FunctionContext, n *ast.CompoundStatement) error {
	fc.EnterScope()
	if n.Body != nil {
		for _, s := range n.Body.Statements() {
			if err := g.lowerStmt(fc, s); err != nil {
				return err
			}
		}
	}
	return fc.ExitScope()
}
