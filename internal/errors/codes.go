package errors

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeConfigValidation Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError  Code = "CONFIG_READ_ERROR"
	CodeConfigParseError Code = "CONFIG_PARSE_ERROR"
	CodePlatformAPIError Code = "PLATFORM_API_ERROR"
	CodePlatformAuth     Code = "PLATFORM_AUTH_ERROR"
	CodeExportError      Code = "EXPORT_ERROR"
	CodeRenderError      Code = "RENDER_ERROR"
	CodeNotImplemented   Code = "NOT_IMPLEMENTED"
)

func (c Code) String() string {
	return string(c)
}
