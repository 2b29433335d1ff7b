package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jar-analysis/internal/testutil"
)

func TestProbe_NamesAndMethods(t *testing.T) {
	data := testutil.NewClass("org/apache/maven/jxr/DirectoryIndexer").
		Version(49, 0).
		Method("<init>", "()V", true).
		Method("process", "(Lorg/apache/oro/text/perl/Perl5Util;I)Ljava/lang/String;", true).
		Build()

	facts, err := Probe(data)
	require.NoError(t, err)

	assert.Equal(t, "org.apache.maven.jxr.DirectoryIndexer", facts.ClassName)
	assert.Equal(t, "org.apache.maven.jxr", facts.PackageName)
	assert.Equal(t, []string{
		"org.apache.maven.jxr.DirectoryIndexer.<init>()V",
		"org.apache.maven.jxr.DirectoryIndexer.process(Lorg/apache/oro/text/perl/Perl5Util;I)Ljava/lang/String;",
	}, facts.Methods)
	assert.Equal(t, uint16(49), facts.Version.Major)
	assert.False(t, facts.IsModuleDescriptor())
}

func TestProbe_UnnamedPackage(t *testing.T) {
	facts, err := Probe(testutil.NewClass("HelloWorld").Build())
	require.NoError(t, err)

	assert.Equal(t, "HelloWorld", facts.ClassName)
	assert.Equal(t, "", facts.PackageName)
}

func TestProbe_ModuleDescriptor(t *testing.T) {
	facts, err := Probe(testutil.NewModuleInfo().Version(55, 0).Build())
	require.NoError(t, err)

	assert.True(t, facts.IsModuleDescriptor())
	assert.Equal(t, "", facts.PackageName)
	assert.Empty(t, facts.Methods)
}

func TestProbe_DebugDetection(t *testing.T) {
	tests := []struct {
		name    string
		builder *testutil.ClassBuilder
		want    bool
	}{
		{
			name:    "all methods with line numbers",
			builder: testutil.NewClass("a/A").Method("m", "()V", true),
			want:    true,
		},
		{
			name:    "one of several methods",
			builder: testutil.NewClass("a/A").Method("m", "()V", false).Method("n", "()V", true),
			want:    true,
		},
		{
			name:    "stripped",
			builder: testutil.NewClass("a/A").Method("m", "()V", false).Method("n", "()V", false),
			want:    false,
		},
		{
			name:    "empty line number table",
			builder: testutil.NewClass("a/A").MethodWithEmptyLineTable("m", "()V"),
			want:    false,
		},
		{
			name:    "no methods",
			builder: testutil.NewClass("a/A"),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts, err := Probe(tt.builder.Build())
			require.NoError(t, err)
			assert.Equal(t, tt.want, facts.DebugPresent)
		})
	}
}

func TestProbe_Imports(t *testing.T) {
	data := testutil.NewClass("org/apache/tools/ant/Target").
		Super("org/apache/tools/ant/ProjectComponent").
		Implements("org/apache/tools/ant/TaskContainer").
		References(
			"org/apache/tools/ant/Location",
			"[Lorg/apache/tools/ant/Task;",
			"[[I",
			"org/apache/tools/ant/XmlLogger$TimedElement",
			"org/apache/tools/ant/Target",
		).
		Field("deps", "Ljava/util/List;").
		Utf8("Ljava/util/Map<Ljava/lang/String;Ljava/util/zip/GZIPInputStream;>;").
		Method("execute", "([Ljava/lang/Object;Lorg/apache/tools/mail/MailMessage;)V", true).
		Build()

	facts, err := Probe(data)
	require.NoError(t, err)

	for _, want := range []string{
		"java.lang.Object",
		"java.lang.String",
		"java.util.List",
		"java.util.Map",
		"java.util.zip.GZIPInputStream",
		"org.apache.tools.ant.Location",
		"org.apache.tools.ant.ProjectComponent",
		"org.apache.tools.ant.Task",
		"org.apache.tools.ant.TaskContainer",
		"org.apache.tools.ant.XmlLogger$TimedElement",
		"org.apache.tools.mail.MailMessage",
	} {
		assert.Contains(t, facts.Imports, want)
	}

	assert.NotContains(t, facts.Imports, "org.apache.tools.ant.Target", "own class is not an import")
	testutil.AssertNoneMatch(t, "imports", `[\[\)\(;/]`, facts.Imports)
	assert.IsIncreasing(t, facts.Imports)
}

func TestProbe_ImportsIgnoreNoise(t *testing.T) {
	data := testutil.NewClass("a/b/C").
		References("Unqualified", "[J").
		Utf8("hello world", "some/path/without/semicolon", "(II)V", "LNoPackage;").
		Build()

	facts, err := Probe(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"java.lang.Object"}, facts.Imports)
}

func TestPackageOf(t *testing.T) {
	assert.Equal(t, "a.b", PackageOf("a/b/C"))
	assert.Equal(t, "a.b", PackageOf("a/b/C$Inner"))
	assert.Equal(t, "", PackageOf("C"))
	assert.Equal(t, "", PackageOf("module-info"))
}

func TestToDotted(t *testing.T) {
	assert.Equal(t, "a.b.C$D", ToDotted("a/b/C$D"))
}
