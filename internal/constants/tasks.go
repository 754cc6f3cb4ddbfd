package constants

// Task groups as shown by the tasks subcommand.
const (
	GroupBuild        = "build"
	GroupVerification = "verification"
	GroupQuality      = "quality"
	GroupDocker       = "docker"
	GroupReporting    = "reporting"
	GroupOther        = "other"
)

// Lifecycle and build task names.
const (
	TaskClean       = "clean"
	TaskClasses     = "classes"
	TaskTestClasses = "testClasses"
	TaskShadowJar   = "shadowJar"
	TaskAssemble    = "assemble"
	TaskBuild       = "build"
	TaskCheck       = "check"
	TaskAllReports  = "allReports"
)

// Compile task names, one per source set.
const (
	TaskCompileJava                = "compileJava"
	TaskCompileTestFixturesJava    = "compileTestFixturesJava"
	TaskCompileTestJava            = "compileTestJava"
	TaskCompileIntegrationTestJava = "compileIntegrationTestJava"
	TaskCompilePerformanceTestJava = "compilePerformanceTestJava"
	TaskCompileModuledTestJava     = "compileModuledTestJava"
)

// Quality task names.
const (
	TaskCheckstyleMain = "checkstyleMain"
	TaskCheckstyleTest = "checkstyleTest"
	TaskPMDMain        = "pmdMain"
	TaskPMDTest        = "pmdTest"
	TaskSpotbugsMain   = "spotbugsMain"
	TaskSpotbugsTest   = "spotbugsTest"
	TaskJacocoReport   = "jacocoTestReport"
	TaskSpotlessCheck  = "spotlessCheck"
	TaskSpotlessApply  = "spotlessApply"
)

// Test task names.
const (
	TaskTest             = "test"
	TaskTestStress       = "testStress"
	TaskTestLocal        = "testLocal"
	TaskTestNoFilesystem = "testNoFilesystem"
	TaskTestAll          = "testAll"
	TaskTestApp          = "testApp"
	TaskTestConfig       = "testConfig"
	TaskTestClient       = "testClient"
	TaskTestDispatcher   = "testDispatcher"
	TaskTestRuntime      = "testRuntime"
	TaskIntegrationTest  = "integrationTest"
	TaskPerformanceTest  = "performanceTest"
	TaskModuledTest      = "moduledTest"
)

// Container task names.
const (
	TaskDockerBuild          = "dockerBuild"
	TaskDockerBuildTestImage = "dockerBuildTestImage"
	TaskDockerRunTests       = "dockerRunTestsInContainer"
	TaskDockerTest           = "dockerTest"
)

// QualityTasks returns the six analyzer task names that check depends on.
func QualityTasks() []string {
	return []string{
		TaskCheckstyleMain,
		TaskCheckstyleTest,
		TaskPMDMain,
		TaskPMDTest,
		TaskSpotbugsMain,
		TaskSpotbugsTest,
	}
}

// Test tags with build-level meaning.
const (
	TagStress     = "stress"
	TagLocal      = "local"
	TagFilesystem = "filesystem"
	TagArchUnit   = "archunit"
)

// Build parameter names accepted as -P project properties.
const (
	ParamJavaVersion   = "javaVersion"
	ParamSkipQuality   = "skipQuality"
	ParamIncludeStress = "includeStress"
	ParamDisableLocal  = "disableLocal"
)

// Source set names.
const (
	SourceSetMain            = "main"
	SourceSetTest            = "test"
	SourceSetTestFixtures    = "testFixtures"
	SourceSetIntegrationTest = "integrationTest"
	SourceSetPerformanceTest = "performanceTest"
	SourceSetModuledTest     = "moduledTest"
)
