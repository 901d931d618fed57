package synth

// templateKind discriminates which dynamic value a message template needs.
type templateKind int

const (
	kindPlain templateKind = iota
	kindPipeline
	kindStep
	kindTag
	kindDuration
)

// template is one synthetic log message shape. The kind names the single
// dynamic field the text expects; selection is by explicit switch, never by
// probing the text for placeholders.
type template struct {
	kind templateKind
	text string
}

var messageTemplates = []template{
	{kindPlain, "job update response status: FAILURE, response: <Response [200]>"},
	{kindPlain, "job update response status: SUCCESS, response: <Response [200]>"},
	{kindPipeline, "Publish report status: True, response: Report has been published for pipeline :: %s"},
	{kindPlain, "Error -> Error  : ETL Error  : ETL stopped due to PRE-CHECK error: Error in DQF Pre-Check check: DQF Pre-Check returned empty status"},
	{kindPlain, "Executing from the start as changes found in the code"},
	{kindStep, "%d. Running ETL for snowflake"},
	{kindPlain, "connect to database - snowflake"},
	{kindTag, "L5 tag version:%s is running"},
	{kindPlain, "ETL Running"},
	{kindPlain, "Starting L5 DAP"},
	{kindPlain, "JSON data is valid"},
	{kindDuration, "Total time for L5 execution = %.2f seconds"},
	{kindPlain, "L5 execution ended"},
	{kindPlain, "L5 (standard) data population ended"},
}

var (
	logLevels  = []string{"INFO", "ERROR", "WARN", "DEBUG"}
	logTypes   = []string{"THIRD_PARTY_LIBRARY", "APPLICATION", "SYSTEM"}
	stageNames = []string{"PLATFORM_INTERNAL", "ETL_PROCESSING", "DATA_VALIDATION", "REPORTING"}

	pipelineIDs = []string{
		"70ae99a3-9260-4435-b13a-1f3abfc2a77f",
		"85bc12d4-a371-4546-c24b-2g4bcgd3b88g",
		"92cd23e5-b482-5657-d35c-3h5cdhe4c99h",
		"a7de34f6-c593-6768-e46d-4i6deif5da0i",
	}

	execIDs = []string{"3920", "3953", "4021", "4087", "4156"}
)
