package parser

import "github.com/alecthomas/participle/v2/lexer"

// This file holds the raw participle-tagged parse tree. It is kept
// separate from internal/ast so that grammar concerns (token shape,
// alternation order, lookahead) never leak into the domain tree that
// the semantic analyzer and code generator consume; convert.go lowers
// one into the other.

type sourceFileSyntax struct {
	Units []*sourceUnitSyntax `@@*`
}

type sourceUnitSyntax struct {
	Struct   *structSyntax   `  @@`
	Contract *contractSyntax `| @@`
	Event    *eventSyntax    `| @@`
}

type structSyntax struct {
	Pos    lexer.Position
	Name   string         `"struct" @Ident "{"`
	Fields []*fieldSyntax `@@* "}"`
}

type fieldSyntax struct {
	Pos  lexer.Position
	Name string     `@Ident ":"`
	Type *typeSyntax `@@ ","`
}

type eventSyntax struct {
	Pos    lexer.Position
	Name   string         `"event" @Ident "("`
	Params []*paramSyntax `[ @@ { "," @@ } ] ")" ";"`
}

type paramSyntax struct {
	Pos  lexer.Position
	Name string      `@Ident ":"`
	Type *typeSyntax `@@`
}

type typeSyntax struct {
	Pos  lexer.Position
	Name string             `@Ident`
	Args []*typeArgSyntax   `[ "<" @@ { "," @@ } ">" ]`
}

// typeArgSyntax is a type-level generic argument: either a nested type
// (Array's element, Mapping's key/value, a Generic's params) or a bare
// integer (Array's fixed length).
type typeArgSyntax struct {
	Number *string     `  @Number`
	Type   *typeSyntax `| @@`
}

type contractSyntax struct {
	Pos   lexer.Position
	Name  string               `"contract" @Ident "{"`
	Parts []*contractPartSyntax `@@* "}"`
}

type contractPartSyntax struct {
	StateVar    *stateVarSyntax    `  @@`
	Constructor *constructorSyntax `| @@`
	Function    *functionSyntax    `| @@`
	Event       *eventSyntax       `| @@`
}

type stateVarSyntax struct {
	Pos      lexer.Position
	IsPublic bool        `[ @"public" ]`
	Name     string      `@Ident ":"`
	Type     *typeSyntax `@@ ";"`
}

type constructorSyntax struct {
	Pos    lexer.Position
	Params []*paramSyntax `"constructor" "(" [ @@ { "," @@ } ] ")"`
	Body   *blockSyntax   `@@`
}

type functionSyntax struct {
	Pos      lexer.Position
	IsPublic bool           `[ @"public" ]`
	Name     string         `"function" @Ident "("`
	Params   []*paramSyntax `[ @@ { "," @@ } ] ")"`
	Returns  *typeSyntax    `[ "->" @@ ]`
	Body     *blockSyntax   `@@`
}

type blockSyntax struct {
	Statements []*stmtSyntax `"{" @@* "}"`
}

type stmtSyntax struct {
	VarDecl    *varDeclStmtSyntax    `  @@`
	Return     *returnStmtSyntax     `| @@`
	Require    *requireStmtSyntax    `| @@`
	Revert     *revertStmtSyntax     `| @@`
	If         *ifStmtSyntax         `| @@`
	For        *forStmtSyntax        `| @@`
	Emit       *emitStmtSyntax       `| @@`
	RequirePqc *requirePqcStmtSyntax `| @@`
	Assign     *assignStmtSyntax     `| @@`
	Expr       *exprStmtSyntax       `| @@`
}

type varDeclStmtSyntax struct {
	Pos         lexer.Position
	Name        string      `"let" @Ident`
	Type        *typeSyntax `[ ":" @@ ]`
	Initializer *exprSyntax `[ "=" @@ ] ";"`
}

type assignStmtSyntax struct {
	Pos  lexer.Position
	Name string      `@Ident "="`
	Expr *exprSyntax `@@ ";"`
}

type returnStmtSyntax struct {
	Pos   lexer.Position
	Value *exprSyntax `"return" [ @@ ] ";"`
}

type requireStmtSyntax struct {
	Pos     lexer.Position
	Cond    *exprSyntax `"require" "(" @@`
	Message *string     `[ "," @String ] ")" ";"`
}

type revertStmtSyntax struct {
	Pos     lexer.Position
	Message *string `"revert" "(" [ @String ] ")" ";"`
}

type ifStmtSyntax struct {
	Pos  lexer.Position
	Cond *exprSyntax  `"if" "(" @@ ")"`
	Then *blockSyntax `@@`
	Else *blockSyntax `[ "else" @@ ]`
}

type forStmtSyntax struct {
	Pos   lexer.Position
	Iter  string       `"for" "(" @Ident "in"`
	Start *exprSyntax  `@@ ".."`
	End   *exprSyntax  `@@ ")"`
	Body  *blockSyntax `@@`
}

type emitStmtSyntax struct {
	Pos       lexer.Position
	EventName string         `"emit" @Ident "("`
	Args      []*exprSyntax  `[ @@ { "," @@ } ] ")" ";"`
}

type requirePqcStmtSyntax struct {
	Pos      lexer.Position
	Block    *blockSyntax `"require_pqc" @@`
	Fallback *stmtSyntax  `[ "else" ( "{" @@ "}" | @@ ) ]`
}

type exprStmtSyntax struct {
	Pos  lexer.Position
	Expr *exprSyntax `@@ ";"`
}

// Expression grammar, precedence tiers loosest to tightest:
// ternary > logicOr > logicAnd > equality > relational > shift >
// additive > multiplicative > unary > postfix > primary.

type exprSyntax struct {
	Cond *logicOrSyntax `@@`
	Then *exprSyntax    `( "?" @@`
	Else *exprSyntax    `  ":" @@ )?`
}

type logicOrSyntax struct {
	Left  *logicAndSyntax   `@@`
	Rest  []*logicOrOpSyntax `{ @@ }`
}
type logicOrOpSyntax struct {
	Op    string          `@"||"`
	Right *logicAndSyntax `@@`
}

type logicAndSyntax struct {
	Left *equalitySyntax    `@@`
	Rest []*logicAndOpSyntax `{ @@ }`
}
type logicAndOpSyntax struct {
	Op    string         `@"&&"`
	Right *equalitySyntax `@@`
}

type equalitySyntax struct {
	Left *relationalSyntax   `@@`
	Rest []*equalityOpSyntax `{ @@ }`
}
type equalityOpSyntax struct {
	Op    string           `@( "==" | "!=" )`
	Right *relationalSyntax `@@`
}

type relationalSyntax struct {
	Left *shiftSyntax         `@@`
	Rest []*relationalOpSyntax `{ @@ }`
}
type relationalOpSyntax struct {
	Op    string      `@( "<=" | ">=" | "<" | ">" )`
	Right *shiftSyntax `@@`
}

type shiftSyntax struct {
	Left *additiveSyntax  `@@`
	Rest []*shiftOpSyntax `{ @@ }`
}
type shiftOpSyntax struct {
	Op    string          `@( "<<" | ">>" )`
	Right *additiveSyntax `@@`
}

type additiveSyntax struct {
	Left *multiplicativeSyntax `@@`
	Rest []*additiveOpSyntax   `{ @@ }`
}
type additiveOpSyntax struct {
	Op    string                `@( "+" | "-" )`
	Right *multiplicativeSyntax `@@`
}

type multiplicativeSyntax struct {
	Left *unarySyntax             `@@`
	Rest []*multiplicativeOpSyntax `{ @@ }`
}
type multiplicativeOpSyntax struct {
	Op    string      `@( "*" | "/" | "%" )`
	Right *unarySyntax `@@`
}

type unarySyntax struct {
	Op      *string          `[ @( "-" | "!" ) ]`
	Operand *postfixSyntax   `@@`
}

type postfixSyntax struct {
	Primary *primarySyntax  `@@`
	Ops     []*postfixOpSyntax `{ @@ }`
}

type postfixOpSyntax struct {
	Member *string      `(  "." @Ident`
	Index  *exprSyntax  ` | "[" @@ "]" )`
}

type primarySyntax struct {
	Pos    lexer.Position
	Call   *callSyntax  `  @@`
	Number *string      `| @Number`
	Hex    *string      `| @Hex`
	Str    *string      `| @String`
	True   bool         `| @"true"`
	False  bool         `| @"false"`
	Ident  *string      `| @Ident`
	Paren  *exprSyntax  `| "(" @@ ")"`
}

type callSyntax struct {
	Name string         `@Ident "("`
	Args []*exprSyntax  `[ @@ { "," @@ } ] ")"`
}
