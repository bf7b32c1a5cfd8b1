package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/gitreport/schema"
)

func TestFileType(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"pom.xml", "Maven POM"},
		{"service/pom.xml", "Maven POM"},
		{"service/POM.XML", "Maven POM"},
		{"a/b/c/pom.xml", "Maven POM"},
		{"src/main/resources/application.properties", "Config (.properties)"},
		{"config.yml", "Config (.yml)"},
		{"deploy/values.YAML", "Config (.yaml)"},
		{"web.xml", "Config (.xml)"},
		{"package.json", "Config (.json)"},
		{"nginx.conf", "Config (.conf)"},
		{"app.config", "Config (.config)"},
		{"src/main/java/App.java", "Java Source"},
		{"src/test/java/AppTest.java", "Java Source"},
		{"Main.JAVA", "Java Source"},
		{"web/app.js", "JavaScript/TypeScript"},
		{"web/app.ts", "JavaScript/TypeScript"},
		{"web/View.jsx", "JavaScript/TypeScript"},
		{"web/View.tsx", "JavaScript/TypeScript"},
		{"tools/gen.py", "Python Source"},
		{"cmd/main.go", "Go Source"},
		{"native/lib.c", "C/C++ Source"},
		{"native/lib.cpp", "C/C++ Source"},
		{"native/lib.h", "C/C++ Source"},
		{"native/lib.hpp", "C/C++ Source"},
		{"static/site.css", "Stylesheets"},
		{"static/site.scss", "Stylesheets"},
		{"static/site.less", "Stylesheets"},
		{"templates/index.html", "Web Templates"},
		{"templates/old.htm", "Web Templates"},
		{"WEB-INF/view.jsp", "Web Templates"},
		{"templates/mail.ftl", "Web Templates"},
		{"db/V1__init.sql", "SQL Scripts"},
		{"README.md", "Documentation"},
		{"NOTES.txt", "Documentation"},
		{"spec.doc", "Documentation"},
		{"spec.docx", "Documentation"},
		{"img/logo.png", "Images"},
		{"img/photo.jpg", "Images"},
		{"img/photo.jpeg", "Images"},
		{"img/anim.gif", "Images"},
		{"favicon.ico", "Images"},
		{"img/icon.svg", "Images"},
		{"run.sh", "Other (.sh)"},
		{"lib/tool.jar", "Other (.jar)"},
		{"data.CSV", "Other (.csv)"},
		{"Makefile", "No Extension"},
		{"Dockerfile", "No Extension"},
		{"bin/run", "No Extension"},
		{"dir.d/LICENSE", "No Extension"},
		{".gitignore", "Other (.gitignore)"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, FileType(tt.path))
		})
	}
}

func TestImpactCategory(t *testing.T) {
	tests := []struct {
		path     string
		expected schema.ImpactCategory
		ok       bool
	}{
		{"pom.xml", schema.DescriptorImpact, true},
		{"service/pom.xml", schema.DescriptorImpact, true},
		{"db/migration/V2__add.sql", schema.SQLImpact, true},
		{"src/main/java/com/acme/App.java", schema.SourceImpact, true},
		{"web/app.ts", "", false},
		{"cmd/main.go", "", false},
		{"tools/report.py", "", false},
		{"web/src/main/resources/static/app.js", schema.ResourceImpact, true},
		{"src/test/java/com/acme/AppTest.java", schema.TestImpact, true},
		{"pkg/TESTING/Helper.java", schema.TestImpact, true},
		{"src/test/js/app.test.js", "", false},
		{"src/main/java/LatestValue.java", schema.TestImpact, true},
		{"config/app.yml", schema.ConfigImpact, true},
		{"src/main/resources/application.properties", schema.ConfigImpact, true},
		{"package.json", schema.ConfigImpact, true},
		{"deploy.sh", schema.ScriptImpact, true},
		{"bin/start.bat", schema.ScriptImpact, true},
		{"bin/start.cmd", schema.ScriptImpact, true},
		{"ops/install.ps1", schema.ScriptImpact, true},
		{"src/main/resources/banner.txt", schema.ResourceImpact, true},
		{"service/src/main/resources/static/logo.png", schema.ResourceImpact, true},
		{"app.config", "", false},
		{"README.md", "", false},
		{"img/logo.png", "", false},
		{"Makefile", "", false},
		{"src/main/resourcesX/file.txt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			category, ok := ImpactCategory(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, category)
		})
	}
}

func TestLayout(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"pom.xml", LayoutDescriptor},
		{"api/pom.xml", LayoutDescriptor},
		{"src/main/java/App.java", LayoutMainSource},
		{"api/src/main/java/App.java", LayoutMainSource},
		{"src/test/java/AppTest.java", LayoutTestSource},
		{"src/main/resources/application.yml", LayoutAppConfig},
		{"src/main/resources/logback.xml", LayoutAppConfig},
		{"src/main/resources/banner.txt", LayoutMainResource},
		{"src/test/resources/fixture.json", LayoutTestResource},
		{"src/main/webapp/index.jsp", LayoutWeb},
		{"docker/Dockerfile", LayoutDocker},
		{"scripts/release.sh", LayoutScripts},
		{"README.md", LayoutOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, Layout(tt.path))
		})
	}
}

func TestClassifiersAreDeterministic(t *testing.T) {
	paths := []string{"pom.xml", "src/main/java/App.java", "README", "x.Sql"}
	for _, p := range paths {
		first, firstOK := ImpactCategory(p)
		for range 5 {
			assert.Equal(t, FileType(p), FileType(p))
			again, againOK := ImpactCategory(p)
			assert.Equal(t, first, again)
			assert.Equal(t, firstOK, againOK)
			assert.Equal(t, Layout(p), Layout(p))
		}
	}
}
