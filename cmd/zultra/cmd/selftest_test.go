package cmd

import "testing"

func TestQuickSelfTestScenariosPass(t *testing.T) {
	if err := runScenarios(quickSelfTestScenarios()); err != nil {
		t.Fatalf("quick self-test scenarios failed: %v", err)
	}
}

func TestSelfTestScenariosPass(t *testing.T) {
	if err := runScenarios(selfTestScenarios()); err != nil {
		t.Fatalf("self-test scenarios failed: %v", err)
	}
}

func TestParseFramingRejectsUnknown(t *testing.T) {
	if _, err := parseFraming("bogus"); err == nil {
		t.Fatalf("expected an error for an unknown framing name")
	}
}
