package taskprovider

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mtatools/mtatools/internal/tools"
)

// commandSuffix keeps the terminal open briefly after the tool exits.
const commandSuffix = "; sleep 2;"

// Synthesize returns the command line for def using the default mbt and cf executables.
func Synthesize(def Definition) string {
	return SynthesizeWith(def, tools.DefaultMbtCommand, tools.DefaultCFCommand)
}

// SynthesizeWith returns the command line for def. Optional flags appear only
// when their property is set, always in the same order. Values are placed
// between double quotes as they are; cmd /C does not unescape backslashes.
func SynthesizeWith(def Definition, mbt, cf string) string {
	var sb strings.Builder
	switch d := def.(type) {
	case ProjectBuild:
		fmt.Fprintf(&sb, "%s build -s \"%s\"", mbt, ProjectDir(d.MtaFilePath))
		optional(&sb, "-t", d.MtarTargetPath)
		optional(&sb, "--mtar", d.MtarName)
		optional(&sb, "-e", d.ExtPath)
	case ModuleBuild:
		fmt.Fprintf(&sb, "%s module-build -m \"%s\" -s \"%s\" -g", mbt, strings.Join(d.Modules, ","), ProjectDir(d.MtaFilePath))
		if d.WithDependencies {
			sb.WriteString(" -a")
		}
		optional(&sb, "-t", d.TargetFolderPath)
		optional(&sb, "-e", d.ExtPath)
	case Deploy:
		fmt.Fprintf(&sb, "%s deploy \"%s\"", cf, d.MtarPath)
		optional(&sb, "-e", d.ExtPath)
	default:
		return ""
	}
	sb.WriteString(commandSuffix)
	return sb.String()
}

// ProjectDir returns the directory of an mta.yaml path.
func ProjectDir(mtaFilePath string) string {
	return filepath.Dir(mtaFilePath)
}

func optional(sb *strings.Builder, flag, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, " %s \"%s\"", flag, value)
}
