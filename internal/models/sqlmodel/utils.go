package sqlmodel

import (
	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
)

func ParseSnowflakeStringToInt64(str string) (int64, error) {
	sfID, err := snowflake.ParseString(str)
	if err != nil {
		return 0, err
	}

	return sfID.Int64(), nil
}

func ParseInt64ToSnowflakeString(i int64) string {
	return snowflake.ParseInt64(i).String()
}

func wrapConversionError(err error, errMsg, fieldName, fieldValue string) error {
	return errors.Wrapf(err, errMsg+": %v: %v", fieldName, fieldValue)
}
