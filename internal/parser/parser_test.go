package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	parser := New()
	require.NotNil(t, parser)
	assert.NotNil(t, parser.parser)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{
			name: "simple function",
			source: `def hello():
    print("Hello, World!")`,
		},
		{
			name: "class definition",
			source: `class MyClass:
    def __init__(self):
        self.value = 42`,
		},
		{
			name:   "empty source",
			source: "",
		},
		{
			name: "syntax error",
			source: `def broken(:
    pass`,
			wantErr: true,
		},
		{
			name:    "python 2 print statement",
			source:  "print \"hi\"\n",
			wantErr: true,
		},
		{
			name:    "python 2 exec statement",
			source:  "def f():\n    exec \"x = 1\"\n",
			wantErr: true,
		},
		{
			name:   "print call",
			source: "print(\"hi\")\nexec(\"x = 1\")\n",
		},
		{
			name: "incomplete code",
			source: `def incomplete(
`,
			wantErr: true,
		},
	}

	parser := New()
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.Parse(ctx, []byte(tt.source))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrSyntax))
				var syntaxErr *SyntaxError
				require.True(t, errors.As(err, &syntaxErr))
				assert.GreaterOrEqual(t, syntaxErr.Line, 1)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, result.RootNode)
			assert.Equal(t, NodeModule, result.RootNode.Type())
		})
	}
}

func TestStatementSpan(t *testing.T) {
	source := `def f(a,
      b):
    x = 1
    # trailing comment

    return """doc
spanning
lines"""
`
	result, err := New().Parse(context.Background(), []byte(source))
	require.NoError(t, err)

	fns := Functions(result.RootNode)
	require.Len(t, fns, 1)
	start, end := StatementSpan(fns[0])
	assert.Equal(t, 1, start)
	assert.Equal(t, 6, end)
}

func TestParseLegacyStatementPosition(t *testing.T) {
	_, err := New().Parse(context.Background(), []byte("x = 1\nif x:\n    print x\n"))
	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, 3, syntaxErr.Line)
	assert.Equal(t, 5, syntaxErr.Column)
}

func TestFunctionsSkipsAsync(t *testing.T) {
	source := `def outer():
    def inner():
        pass
    return inner

class A:
    def m(self):
        pass

    async def am(self):
        pass
`
	result, err := New().Parse(context.Background(), []byte(source))
	require.NoError(t, err)

	var names []string
	for _, fn := range Functions(result.RootNode) {
		names = append(names, Name(fn, result.SourceCode))
	}
	assert.Equal(t, []string{"outer", "inner", "m"}, names)
	assert.Len(t, FindNodes(result.RootNode, NodeFunctionDefinition), 4)
}

func TestDirectMethods(t *testing.T) {
	source := `class A:
    x = 1

    def a(self):
        def helper():
            pass

    @staticmethod
    def b():
        pass

    async def c(self):
        pass

    @staticmethod
    async def d():
        pass

    class Inner:
        def c(self):
            pass
`
	result, err := New().Parse(context.Background(), []byte(source))
	require.NoError(t, err)

	classes := Classes(result.RootNode)
	require.Len(t, classes, 2)

	var names []string
	for _, m := range DirectMethods(classes[0]) {
		names = append(names, Name(m, result.SourceCode))
	}
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Len(t, DirectMethods(classes[1]), 1)
}

func TestSnippet(t *testing.T) {
	lines := SourceLines([]byte("a\r\nb\nc"))
	assert.Equal(t, []string{"a", "b", "c"}, lines)
	assert.Equal(t, "b\nc", Snippet(lines, 2, 3))
	assert.Equal(t, "a\nb\nc", Snippet(lines, 0, 10))
	assert.Equal(t, "", Snippet(lines, 3, 2))
}
