package parsers

import (
	"fmt"

	"github.com/username/tourtally/backend/src/parsers/report"
	"github.com/username/tourtally/backend/src/parsers/text"
)

func GetParser(source string) (Parser, error) {
	switch source {
	case "report":
		return report.NewParser(), nil
	case "text":
		return text.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for source: %s", source)
	}
}
