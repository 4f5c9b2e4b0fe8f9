package codegen

import "cmipsc/ast"

// emitFunctionDefinition lowers one function body end to end per
// spec.md §4.5.4: frame-size computation, prologue, argument spilling,
// body, epilogue.
func (g *Generator) emitFunctionDefinition(fn *ast.FunctionDefinition) error {
	name := fn.Name.ID
	declBytes, err := CountDeclarationBytes(fn.Body)
	if err != nil {
		return err
	}

	epilogue := g.Env.UniqueID(name + "_epilogue")
	fc := NewFunctionContext(name, declBytes, epilogue)
	frameSize := fc.FrameSize

	g.rawLine("\t.align 2")
	g.rawLine("\t.set nomips16")
	g.rawLine("\t.set nomicromips")
	g.rawLine("\t.ent %s", name)
	g.rawLine("\t.type %s, @function", name)
	g.label(name)

	g.emit("addiu $sp, $sp, -%d", frameSize)
	g.emit("sw $ra, %d($sp)", frameSize-4)
	g.emit("sw $fp, %d($sp)", frameSize-8)
	g.emit("move $fp, $sp")

	fc.EnterScope()

	isMain := name == "main"
	argNames := ExtractArgumentNames(fn.Args)
	if !isMain {
		for i, argName := range argNames {
			off := frameSize + i*wordSize
			g.emit("sw $a%d, %d($sp)", i, off)
			if argName != NoFuncArgumentSentinel {
				if err := fc.PlaceArgument(argName, off); err != nil {
					return err
				}
			}
		}
	}

	if err := g.lowerCompound(fc, fn.Body); err != nil {
		return err
	}

	g.label(epilogue)
	if !isMain {
		for i, argName := range argNames {
			_ = argName
			off := frameSize + i*wordSize
			g.emit("lw $a%d, %d($sp)", i, off)
			g.nop()
		}
	}
	g.emit("lw $ra, %d($sp)", frameSize-4)
	g.emit("lw $fp, %d($sp)", frameSize-8)
	g.emit("addiu $sp, $sp, %d", frameSize)
	g.emit("j $ra")
	g.nop()

	g.rawLine("\t.set macro")
	g.rawLine("\t.set reorder")
	g.rawLine("\t.end %s", name)
	g.rawLine("\t.size %s, .-%s", name, name)

	return fc.ExitScope()
}
