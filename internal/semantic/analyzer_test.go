package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	synqerrors "github.com/synergy-network-hq/synq-language-sub000/internal/errors"
	"github.com/synergy-network-hq/synq-language-sub000/internal/parser"
)

func analyzeSource(t *testing.T, src string) []synqerrors.CompilerError {
	t.Helper()
	file, err := parser.ParseSource("test.synq", src)
	require.NoError(t, err)
	return Analyze(file.Units)
}

func errCodes(errs []synqerrors.CompilerError) []string {
	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	return codes
}

func TestAnalyze_SimpleContractHasNoDiagnostics(t *testing.T) {
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
	assert.Empty(t, analyzeSource(t, src))
}

func TestAnalyze_MissingReturnWhenElseEmpty(t *testing.T) {
	src := `
contract C {
    function f(b: Bool) -> UInt256 {
        if (b) {
            return 1;
        } else {
        }
    }
}
`
	errs := analyzeSource(t, src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errCodes(errs), synqerrors.ErrorMissingReturn)
}

func TestAnalyze_IfElseBothReturningTerminates(t *testing.T) {
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
	assert.Empty(t, analyzeSource(t, src))
}

func TestAnalyze_UnreachableStatementAfterReturn(t *testing.T) {
	src := `
contract C {
    function f() -> UInt256 {
        return 1;
        let x: UInt256 = 2;
    }
}
`
	errs := analyzeSource(t, src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errCodes(errs), synqerrors.ErrorUnreachableCode)
}

func TestAnalyze_UndefinedSymbol(t *testing.T) {
	src := `
contract C {
    function f() -> UInt256 {
        return missing;
    }
}
`
	errs := analyzeSource(t, src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errCodes(errs), synqerrors.ErrorUndefinedSymbol)
}

func TestAnalyze_DuplicateStateVariable(t *testing.T) {
	src := `
contract C {
    public count: UInt256;
    public count: UInt256;
}
`
	errs := analyzeSource(t, src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errCodes(errs), synqerrors.ErrorDuplicateStateVar)
}

func TestAnalyze_DuplicateConstructor(t *testing.T) {
	src := `
contract C {
    constructor() {
    }
    constructor() {
    }
}
`
	errs := analyzeSource(t, src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errCodes(errs), synqerrors.ErrorDuplicateConstructor)
}

func TestAnalyze_NonBooleanIfConditionIsTypeMismatch(t *testing.T) {
	src := `
contract C {
    function f() -> UInt256 {
        if (1) {
            return 1;
        }
        return 2;
    }
}
`
	errs := analyzeSource(t, src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errCodes(errs), synqerrors.ErrorTypeMismatch)
}

func TestAnalyze_PqcVerifyBuiltinResolvesCleanly(t *testing.T) {
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
	assert.Empty(t, analyzeSource(t, src))
}

func TestAnalyze_UnsupportedSlhdsaBuiltinIsDescoped(t *testing.T) {
	src := `
contract Verifier {
    function check(pk: Bytes, msg: Bytes, sig: Bytes) -> Bool {
        return verify_slhdsa(pk, msg, sig);
    }
}
`
	errs := analyzeSource(t, src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errCodes(errs), synqerrors.ErrorUnsupportedBuiltin)
}

func TestResolveBuiltin_NormalizesCasingAndUnderscores(t *testing.T) {
	for _, name := range []string{"verify_mldsa65", "verifyMLDSA65", "VerifyMLDSA65"} {
		resolution, sig, reason := ResolveBuiltin(name)
		assert.Equal(t, Supported, resolution, "name %q", name)
		assert.Empty(t, reason)
		assert.Len(t, sig.Params, 3)
		require.NotNil(t, sig.Returns)
		assert.Equal(t, "Bool", sig.Returns.String())
	}
}

func TestResolveBuiltin_HqcKemDecapsulateIsSupported(t *testing.T) {
	resolution, sig, _ := ResolveBuiltin("hqckem192_decapsulate")
	assert.Equal(t, Supported, resolution)
	assert.Len(t, sig.Params, 2)
}
