package domain

import "strings"

type AccountID string

var DefaultAccountIDs = []AccountID{"account_id_1", "account_id_2"}

func (id AccountID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}
