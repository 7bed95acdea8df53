// =================================================================================
// This is auto-generated by GoFrame CLI tool only once. Fill this file as you wish.
// =================================================================================

package guestqa

import (
	"github.com/stayline/guestqa/api/guestqa"
)

type ControllerV1 struct{}

func NewV1() guestqa.IGuestqaV1 {
	return &ControllerV1{}
}
