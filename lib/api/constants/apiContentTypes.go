package constants

const (
	ContentTypeJSON      = "application/json"
	ContentTypeXML       = "application/xml"
	ContentTypeTextPlain = "text/plain; charset=utf-8"
)
