package helper

import "testing"

func TestGetFuncName(t *testing.T) {
	if got := GetFuncName(); got != "helper.TestGetFuncName" {
		t.Errorf("GetFuncName() = %q, want %q", got, "helper.TestGetFuncName")
	}
}
