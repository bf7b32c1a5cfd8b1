// Package classify assigns changed paths to display buckets.
//
// FileType is the general taxonomy used by the file-type table. ImpactCategory
// is the narrower vocabulary used by the module impact report, and Layout
// groups paths by their position in a standard build layout.
package classify

import (
	"path"
	"strings"

	"github.com/huangsam/gitreport/schema"
)

// Descriptor is the project-descriptor basename that marks a module.
const Descriptor = "pom.xml"

// ResourcePrefix marks main resources within a module.
const ResourcePrefix = "src/main/resources/"

// impactSourceExt is the only extension counted as module source or test code.
const impactSourceExt = ".java"

var configExts = map[string]struct{}{
	".properties": {}, ".yml": {}, ".yaml": {}, ".xml": {}, ".json": {}, ".conf": {}, ".config": {},
}

// impactConfigExts is configExts without ".config".
var impactConfigExts = map[string]struct{}{
	".properties": {}, ".yml": {}, ".yaml": {}, ".xml": {}, ".json": {}, ".conf": {},
}

var sourceLabels = map[string]string{
	".java": "Java Source",
	".js":   "JavaScript/TypeScript",
	".ts":   "JavaScript/TypeScript",
	".jsx":  "JavaScript/TypeScript",
	".tsx":  "JavaScript/TypeScript",
	".py":   "Python Source",
	".go":   "Go Source",
	".c":    "C/C++ Source",
	".cpp":  "C/C++ Source",
	".h":    "C/C++ Source",
	".hpp":  "C/C++ Source",
}

var assetLabels = map[string]string{
	".css":  "Stylesheets",
	".scss": "Stylesheets",
	".less": "Stylesheets",
	".html": "Web Templates",
	".htm":  "Web Templates",
	".jsp":  "Web Templates",
	".ftl":  "Web Templates",
	".sql":  "SQL Scripts",
	".md":   "Documentation",
	".txt":  "Documentation",
	".doc":  "Documentation",
	".docx": "Documentation",
	".png":  "Images",
	".jpg":  "Images",
	".jpeg": "Images",
	".gif":  "Images",
	".ico":  "Images",
	".svg":  "Images",
}

var scriptExts = map[string]struct{}{
	".sh": {}, ".bat": {}, ".cmd": {}, ".ps1": {},
}

// Labels for paths outside every table.
const (
	DescriptorLabel  = "Maven POM"
	NoExtensionLabel = "No Extension"
)

// ext returns the lowercased extension of the basename, including the dot.
func ext(p string) string {
	return strings.ToLower(path.Ext(path.Base(p)))
}

func isDescriptor(p string) bool {
	return strings.ToLower(path.Base(p)) == Descriptor
}

// FileType returns the display label for a path. It is total and deterministic.
func FileType(p string) string {
	if isDescriptor(p) {
		return DescriptorLabel
	}
	e := ext(p)
	if _, ok := configExts[e]; ok {
		return "Config (" + e + ")"
	}
	if label, ok := sourceLabels[e]; ok {
		return label
	}
	if label, ok := assetLabels[e]; ok {
		return label
	}
	if e != "" {
		return "Other (" + e + ")"
	}
	return NoExtensionLabel
}

// ImpactCategory returns the module-impact category of a path, or false when
// the path falls in none of them.
func ImpactCategory(p string) (schema.ImpactCategory, bool) {
	if isDescriptor(p) {
		return schema.DescriptorImpact, true
	}
	e := ext(p)
	if e == ".sql" {
		return schema.SQLImpact, true
	}
	if e == impactSourceExt {
		if strings.Contains(strings.ToLower(p), "test") {
			return schema.TestImpact, true
		}
		return schema.SourceImpact, true
	}
	if _, ok := impactConfigExts[e]; ok {
		return schema.ConfigImpact, true
	}
	if _, ok := scriptExts[e]; ok {
		return schema.ScriptImpact, true
	}
	if underPrefix(p, ResourcePrefix) {
		return schema.ResourceImpact, true
	}
	return "", false
}

// underPrefix reports whether p sits under prefix at the root or below any directory.
func underPrefix(p, prefix string) bool {
	return strings.HasPrefix(p, prefix) || strings.Contains(p, "/"+prefix)
}

// Layout labels used by the module report.
const (
	LayoutDescriptor    = "Build Descriptor"
	LayoutMainSource    = "Main Source"
	LayoutTestSource    = "Test Source"
	LayoutAppConfig     = "Application Config"
	LayoutMainResource  = "Main Resources"
	LayoutTestResource  = "Test Resources"
	LayoutWeb           = "Web Assets"
	LayoutDocker        = "Docker"
	LayoutScripts       = "Scripts"
	LayoutOther         = "Other"
	mainSourcePrefix    = "src/main/java/"
	testSourcePrefix    = "src/test/java/"
	testResourcesPrefix = "src/test/resources/"
)

// Layout groups a path by where it sits in the conventional module layout.
func Layout(p string) string {
	if isDescriptor(p) {
		return LayoutDescriptor
	}
	switch {
	case underPrefix(p, mainSourcePrefix):
		return LayoutMainSource
	case underPrefix(p, testSourcePrefix):
		return LayoutTestSource
	case underPrefix(p, ResourcePrefix):
		switch ext(p) {
		case ".properties", ".yml", ".yaml", ".xml":
			return LayoutAppConfig
		}
		return LayoutMainResource
	case underPrefix(p, testResourcesPrefix):
		return LayoutTestResource
	}
	switch {
	case strings.Contains(p, "webapp"):
		return LayoutWeb
	case strings.Contains(p, "docker"):
		return LayoutDocker
	case strings.Contains(p, "scripts"):
		return LayoutScripts
	}
	return LayoutOther
}
