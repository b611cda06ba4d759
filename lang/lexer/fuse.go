package lexer

import "github.com/saltlang/saltc/lang/token"

// fuse implements the compound-token fusion table: after every freshly
// appended token, the lexer inspects the previous token already in its
// output and may merge the two into one. It also implements the separate
// whitespace-counter rule: four consecutive WS tokens collapse into a
// single TAB, which is how indentation forms one lexical unit per level.
func (l *Lexer) fuse(toks *[]token.Token) {
	ts := *toks
	n := len(ts)
	if n < 2 {
		return
	}
	prev, cur := ts[n-2], ts[n-1]

	// unsigned char/short/int/long -> uchar/ushort/uint/ulong. The two words
	// are separated by a WS token in the output, so the modifier sits one or
	// two slots back.
	if cur.Kind == token.TYPE {
		if prev.Kind == token.UNSIGNED {
			if name, ok := unsignedName(cur.Data); ok {
				ts[n-2] = token.New(token.TYPE, name, cur.Count, prev.Pos)
				*toks = ts[:n-1]
				return
			}
		}
		if prev.Kind == token.WS && n >= 3 && ts[n-3].Kind == token.UNSIGNED {
			if name, ok := unsignedName(cur.Data); ok {
				ts[n-3] = token.New(token.TYPE, name, cur.Count, ts[n-3].Pos)
				*toks = ts[:n-2]
				return
			}
		}
	}

	// "* *" after a type: each '*' widens the pointer-layer count in place.
	if prev.Kind == token.TYPE && cur.Kind == token.MUL {
		ts[n-2] = token.New(token.TYPE, prev.Data, prev.Count+1, prev.Pos)
		*toks = ts[:n-1]
		return
	}

	if fused, ok := fusePair(prev.Kind, cur.Kind); ok {
		if fused == token.LINE_COMMENT {
			// "//" (legacy warning): drop both symbol tokens and re-enter
			// line-comment mode for the remainder of the physical line.
			l.warnf(prev.Pos, "'//' line comments are a legacy form, prefer '#'")
			l.mode = modeLineComment
			*toks = ts[:n-2]
			return
		}
		ts[n-2] = token.New(fused, "", 0, prev.Pos)
		*toks = ts[:n-1]
		return
	}

	if prev.Kind == token.WS && cur.Kind == token.WS && n >= 4 &&
		ts[n-3].Kind == token.WS && ts[n-4].Kind == token.WS {
		ts[n-4] = token.New(token.TAB, "", 0, ts[n-4].Pos)
		*toks = ts[:n-3]
		return
	}
}

func unsignedName(typeName string) (string, bool) {
	switch typeName {
	case "char":
		return "uchar", true
	case "short":
		return "ushort", true
	case "int":
		return "uint", true
	case "long":
		return "ulong", true
	}
	return "", false
}

// fusePair looks up the two-token fusion table for pairs whose result
// doesn't depend on anything beyond the two kinds themselves.
func fusePair(prev, cur token.Kind) (token.Kind, bool) {
	switch {
	case prev == token.ADD && cur == token.ADD:
		return token.INCREMENT, true
	case prev == token.SUB && cur == token.SUB:
		return token.DECREMENT, true
	case prev == token.DIV && cur == token.DIV:
		return token.LINE_COMMENT, true // sentinel: handled specially by caller
	case prev == token.DIV && cur == token.MUL:
		return token.BLOCK_COMMENT_START, true
	case prev == token.MUL && cur == token.DIV:
		return token.BLOCK_COMMENT_END, true
	case prev == token.LANGLE && cur == token.LANGLE:
		return token.SHL, true
	case prev == token.RANGLE && cur == token.RANGLE:
		return token.SHR, true
	case prev == token.SUB && cur == token.RANGLE:
		return token.ARROW, true
	case prev == token.AMP && cur == token.AMP:
		return token.AND, true
	case prev == token.BAR && cur == token.BAR:
		return token.OR, true
	case prev == token.EXCL && cur == token.ASSIGN:
		return token.NEQ, true
	case prev == token.LANGLE && cur == token.ASSIGN:
		return token.LE, true
	case prev == token.RANGLE && cur == token.ASSIGN:
		return token.GE, true
	case prev == token.ASSIGN && cur == token.ASSIGN:
		return token.EQ, true

	case prev == token.ADD && cur == token.ASSIGN:
		return token.ADD_ASSIGN, true
	case prev == token.SUB && cur == token.ASSIGN:
		return token.SUB_ASSIGN, true
	case prev == token.MUL && cur == token.ASSIGN:
		return token.MUL_ASSIGN, true
	case prev == token.DIV && cur == token.ASSIGN:
		return token.DIV_ASSIGN, true
	case prev == token.MODULO && cur == token.ASSIGN:
		return token.MOD_ASSIGN, true
	case prev == token.AMP && cur == token.ASSIGN:
		return token.AND_ASSIGN, true
	case prev == token.BAR && cur == token.ASSIGN:
		return token.OR_ASSIGN, true
	case prev == token.TILDE && cur == token.ASSIGN:
		return token.TILDE_ASSIGN, true
	case prev == token.CARAT && cur == token.ASSIGN:
		return token.XOR_ASSIGN, true
	case prev == token.SHL && cur == token.ASSIGN:
		return token.SHL_ASSIGN, true
	case prev == token.SHR && cur == token.ASSIGN:
		return token.SHR_ASSIGN, true
	}
	return token.NONE, false
}
