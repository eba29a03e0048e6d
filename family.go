/*
Copyright © 2026 the nexusprep authors.
This file is part of nexusprep.

nexusprep is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

nexusprep is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with nexusprep.  If not, see <http://www.gnu.org/licenses/>.*/

package nexusprep

import (
	"fmt"

	"github.com/Knetic/govaluate"
)

// RuleTemplate is one member of a rule-table family: a free-form
// description of a parameter-generation rule (technology input/output/cost
// tables and the like). Values may include one level of nested mapping,
// conventionally a "pipe" sub-mapping of boolean processing flags.
type RuleTemplate map[string]interface{}

// ConditionKey is the template key holding the discriminator used to
// select applicable rules at data-generation time.
const ConditionKey = "condition"

// MergeRules returns a copy of base patched with override. Where both the
// base and override values for a key are mappings, the mappings are merged
// key-by-key one level deep; deeper nesting, and every other value, is
// overwritten wholesale. base is deep-copied first, so templates may be
// reused across many overrides without aliasing nested mappings between
// the generated rules.
func MergeRules(base, override RuleTemplate) RuleTemplate {
	out := RuleTemplate(copyTemplate(base))
	for k, v := range override {
		ov, vIsMap := v.(map[string]interface{})
		bv, baseIsMap := out[k].(map[string]interface{})
		if vIsMap && baseIsMap {
			for kk, vv := range ov {
				bv[kk] = copyValue(vv)
			}
			continue
		}
		out[k] = copyValue(v)
	}
	return out
}

// GenerateRules applies each diff in turn to the base template, producing
// the family of concrete rules in diff order. Each generated rule carries
// whatever condition discriminator its diff (or the base) declares.
func GenerateRules(base RuleTemplate, diffs []RuleTemplate) []RuleTemplate {
	out := make([]RuleTemplate, len(diffs))
	for i, d := range diffs {
		out[i] = MergeRules(base, d)
	}
	return out
}

// SelectRules returns the family members whose condition discriminator
// equals condition. Members with no discriminator apply unconditionally
// and are always included.
func SelectRules(family []RuleTemplate, condition string) []RuleTemplate {
	var out []RuleTemplate
	for _, r := range family {
		c, _ := r[ConditionKey].(string)
		if c == "" || c == condition {
			out = append(out, r)
		}
	}
	return out
}

// FilterRules returns the family members for which the given boolean
// expression evaluates true. The expression's variables are each rule's
// top-level fields, so e.g. `condition == 'treated' && type == 'input'`
// selects treated-water input rules.
func FilterRules(family []RuleTemplate, expression string) ([]RuleTemplate, error) {
	expr, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return nil, fmt.Errorf("nexusprep: parsing rule filter %q: %v", expression, err)
	}
	var out []RuleTemplate
	for _, r := range family {
		v, err := expr.Evaluate(map[string]interface{}(r))
		if err != nil {
			return nil, fmt.Errorf("nexusprep: evaluating rule filter %q: %v", expression, err)
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("nexusprep: rule filter %q returned %v; want a boolean", expression, v)
		}
		if b {
			out = append(out, r)
		}
	}
	return out, nil
}

// copyTemplate deep-copies a template mapping.
func copyTemplate(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

// copyValue copies nested mappings and slices; scalars are returned as is.
func copyValue(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		return copyTemplate(vv)
	case []interface{}:
		out := make([]interface{}, len(vv))
		for i, e := range vv {
			out[i] = copyValue(e)
		}
		return out
	}
	return v
}
