package constants

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.riid/logs/riid-build.log
	CLILogFileName = "riid-build.log"
)

// Configuration and input file names.
const (
	// GlobalConfigName is the name of the user-level configuration file.
	// This file is located in the riid home directory.
	GlobalConfigName = "build.yaml"

	// ProjectConfigName is the name of the project configuration file.
	// This file is located in the project root directory.
	ProjectConfigName = "riid-build.yaml"

	// ManifestFileName is the dependency manifest in the project root.
	ManifestFileName = "dependencies.hcl"

	// CheckstyleConfig is the project-relative Checkstyle rule file.
	CheckstyleConfig = "config/checkstyle/checkstyle.xml"

	// LockFileName is the build directory lock file.
	LockFileName = ".riid-build.lock"
)

// Report paths relative to build/reports.
const (
	ReportCheckstyleMain = "checkstyle/main.html"
	ReportCheckstyleTest = "checkstyle/test.html"
	ReportPMDMain        = "pmd/main.html"
	ReportPMDTest        = "pmd/test.html"
	ReportSpotbugsMain   = "spotbugs/main.html"
	ReportSpotbugsTest   = "spotbugs/test.html"
	ReportJacoco         = "jacoco/test/html/index.html"

	// Checkstyle writes XML; its HTML reports are rendered from these.
	ReportCheckstyleMainXML = "checkstyle/main.xml"
	ReportCheckstyleTestXML = "checkstyle/test.xml"

	// CombinedReport is the aggregated quality report.
	CombinedReport = "all-reports.html"

	// SummaryFileName is the YAML run summary.
	SummaryFileName = "build-summary.yaml"
)

// QualityReports returns the six analyzer report paths in aggregation order.
func QualityReports() []string {
	return []string{
		ReportCheckstyleMain,
		ReportCheckstyleTest,
		ReportPMDMain,
		ReportPMDTest,
		ReportSpotbugsMain,
		ReportSpotbugsTest,
	}
}
