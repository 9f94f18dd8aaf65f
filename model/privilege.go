// model/privilege.go
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Classification is the sensitivity level of a resource. The order is total
// and fixed: each constant carries its own rank so a reordering of the
// declarations cannot silently change comparisons.
type Classification int

const (
	ClassificationPublic       Classification = 0
	ClassificationInternal     Classification = 1
	ClassificationConfidential Classification = 2
	ClassificationPrivileged   Classification = 3
	ClassificationWorkProduct  Classification = 4
	ClassificationJointDefense Classification = 5
)

var classificationNames = map[Classification]string{
	ClassificationPublic:       "PUBLIC",
	ClassificationInternal:     "INTERNAL",
	ClassificationConfidential: "CONFIDENTIAL",
	ClassificationPrivileged:   "PRIVILEGED",
	ClassificationWorkProduct:  "WORK_PRODUCT",
	ClassificationJointDefense: "JOINT_DEFENSE",
}

// Rank returns the position of the classification in the total order.
func (c Classification) Rank() int {
	return int(c)
}

// AtLeast reports whether c is at or above the other classification.
func (c Classification) AtLeast(other Classification) bool {
	return c.Rank() >= other.Rank()
}

func (c Classification) String() string {
	if name, ok := classificationNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CLASSIFICATION(%d)", int(c))
}

// ParseClassification maps a wire name back to a classification.
func ParseClassification(name string) (Classification, error) {
	for classification, n := range classificationNames {
		if n == name {
			return classification, nil
		}
	}
	return ClassificationPublic, fmt.Errorf("unknown classification: %q", name)
}

func (c Classification) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Classification) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseClassification(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// PrivilegeMetadata is the sensitivity record attached to a resource
// (document, note, message). Owned by the document store; read-only here.
type PrivilegeMetadata struct {
	ResourceID          string         `json:"resource_id"`
	Classification      Classification `json:"classification"`
	AttorneyID          string         `json:"attorney_id,omitempty"`
	ClientID            string         `json:"client_id,omitempty"`
	MatterID            string         `json:"matter_id,omitempty"`
	JointDefenseGroupID string         `json:"joint_defense_group_id,omitempty"`
	Waived              bool           `json:"waived"`
	WaivedAt            *time.Time     `json:"waived_at,omitempty"`
	WaiverReason        string         `json:"waiver_reason,omitempty"`
}
