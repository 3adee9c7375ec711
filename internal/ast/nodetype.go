package ast

type NodeType int

//go:generate stringer -type=NodeType
const (
	ILLEGAL NodeType = iota

	// Source units
	STRUCT_DEF
	CONTRACT_DEF
	EVENT_DEF

	// Contract parts
	STATE_VARIABLE
	CONSTRUCTOR
	FUNCTION_DEF

	// Shared
	FIELD_DEF
	PARAM_DEF
	TYPE_NODE

	// Statements
	VAR_DECL_STMT
	ASSIGN_STMT
	RETURN_STMT
	REQUIRE_STMT
	REVERT_STMT
	IF_STMT
	FOR_STMT
	EMIT_STMT
	REQUIRE_PQC_STMT
	EXPR_STMT
	BLOCK

	// Expressions
	LITERAL_EXPR
	IDENT_EXPR
	CALL_EXPR
	MEMBER_ACCESS_EXPR
	BINARY_EXPR
	UNARY_EXPR
	INDEX_ACCESS_EXPR
	TERNARY_EXPR
)
