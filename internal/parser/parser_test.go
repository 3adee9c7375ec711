package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synergy-network-hq/synq-language-sub000/internal/ast"
)

func TestParseSource_ContractWithStateAndFunction(t *testing.T) {
	src := `
contract Counter {
    public count: UInt256;

    constructor(start: UInt256) {
        count = start;
    }

    public function increment() -> UInt256 {
        count = count + 1;
        return count;
    }
}
`
	file, err := ParseSource("counter.synq", src)
	require.NoError(t, err)
	require.Len(t, file.Units, 1)

	contract, ok := file.Units[0].(*ast.ContractDef)
	require.True(t, ok)
	assert.Equal(t, "Counter", contract.Name)
	assert.Len(t, contract.StateVariables(), 1)
	assert.Len(t, contract.Constructors(), 1)
	assert.Len(t, contract.Functions(), 1)

	fn := contract.Functions()[0]
	assert.Equal(t, "increment", fn.Name)
	require.NotNil(t, fn.Returns)
	assert.Equal(t, ast.KindUInt, fn.Returns.Kind)
	assert.Equal(t, 256, fn.Returns.BitWidth)
}

func TestParseSource_ForLoop(t *testing.T) {
	src := `
contract Sum {
    public function run() -> UInt256 {
        let sum: UInt256 = 0;
        for (i in 0..5) {
            sum = sum + i;
        }
        return sum;
    }
}
`
	file, err := ParseSource("sum.synq", src)
	require.NoError(t, err)
	contract := file.Units[0].(*ast.ContractDef)
	fn := contract.Functions()[0]

	require.Len(t, fn.Body.Statements, 3)
	forStmt, ok := fn.Body.Statements[1].(*ast.ForStmt)
	require.True(t, ok)
	assert.Equal(t, "i", forStmt.Iter)
	require.Len(t, forStmt.Body.Statements, 1)
}

func TestParseSource_IfElseReturn(t *testing.T) {
	src := `
contract C {
    function f(b: Bool) -> UInt256 {
        if (b) {
            return 1;
        } else {
            return 2;
        }
    }
}
`
	file, err := ParseSource("ifelse.synq", src)
	require.NoError(t, err)
	contract := file.Units[0].(*ast.ContractDef)
	fn := contract.Functions()[0]

	require.Len(t, fn.Body.Statements, 1)
	ifStmt, ok := fn.Body.Statements[0].(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Else)
}

func TestParseSource_RequirePqcAndEmit(t *testing.T) {
	src := `
contract Verifier {
    event Verified(result: Bool);

    function check(pk: MLDSAPublicKey, msg: Bytes, sig: MLDSASignature) -> Bool {
        require_pqc {
            let ok: Bool = verify_mldsa65(pk, msg, sig);
        } else {
            revert("verification failed");
        }
        emit Verified(true);
        return true;
    }
}
`
	file, err := ParseSource("verifier.synq", src)
	require.NoError(t, err)
	contract := file.Units[0].(*ast.ContractDef)
	assert.Len(t, contract.Events(), 1)

	fn := contract.Functions()[0]
	require.Len(t, fn.Body.Statements, 3)
	_, ok := fn.Body.Statements[0].(*ast.RequirePqcStmt)
	assert.True(t, ok)
	_, ok = fn.Body.Statements[1].(*ast.EmitStmt)
	assert.True(t, ok)
}

func TestParseSource_TernaryAndPrecedence(t *testing.T) {
	src := `
contract P {
    function f() -> UInt256 {
        let x: UInt256 = 1 + 2 * 3;
        let y: UInt256 = x > 5 ? x : 5;
        return y;
    }
}
`
	file, err := ParseSource("p.synq", src)
	require.NoError(t, err)
	contract := file.Units[0].(*ast.ContractDef)
	fn := contract.Functions()[0]

	xDecl := fn.Body.Statements[0].(*ast.VarDeclStmt)
	bin, ok := xDecl.Initializer.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)
	_, ok = bin.Right.(*ast.BinaryExpr)
	assert.True(t, ok, "multiplication should bind tighter and nest on the right")

	yDecl := fn.Body.Statements[1].(*ast.VarDeclStmt)
	_, ok = yDecl.Initializer.(*ast.TernaryExpr)
	assert.True(t, ok)
}
