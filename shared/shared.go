package shared

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"evotodo/shared/dto"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func BuildCacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// FilterByID builds the single-row filter used by get/update/delete.
func FilterByID(id int64, field, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    field,
				Operator: dto.FilterOperatorEq,
				Value:    id,
				Table:    table,
			},
		},
	}
}

// FilterByOwner scopes a query to the rows owned by the given identity.
func FilterByOwner(owner, field, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    field,
				Operator: dto.FilterOperatorEq,
				Value:    owner,
				Table:    table,
			},
		},
	}
}
