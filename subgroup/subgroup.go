// Package subgroup assigns the buffers of a many-buffer call to independent
// groups.
//
// Each input and each output buffer belongs to exactly one group, identified
// by an int32 id. The parallel dispatcher runs one task per distinct group id
// and hands every task the inputs and outputs of its group in their original
// relative order.
//
// Without configuration every input i and output i forms its own group i:
//
//	m := subgroup.New()
//	if err := m.NormalizeAndValidate(inputs, outputs); err != nil {
//	    return err
//	}
//	for _, id := range m.GroupIDs() {
//	    ins := m.InputGroup(inputs, id)
//	    outs := m.OutputGroup(outputs, id)
//	    ...
//	}
package subgroup

import (
	"slices"

	"github.com/arloliu/pressio/data"
	"github.com/arloliu/pressio/errs"
	"github.com/arloliu/pressio/options"
)

// Prefix is the option key prefix of the subgroup manager.
const Prefix = "subgroups"

// Option keys.
const (
	KeyInputGroups  = Prefix + ":input_data_groups"
	KeyOutputGroups = Prefix + ":output_data_groups"
)

// Manager holds the configured group assignment and the assignment
// normalized against the buffers of the last call.
type Manager struct {
	inputGroups  []int32
	outputGroups []int32

	effectiveInputs  []int32
	effectiveOutputs []int32

	name  string
	state errs.State
}

// New creates a Manager with no explicit assignment.
func New() *Manager {
	return &Manager{}
}

// Name returns the instance name.
func (m *Manager) Name() string {
	return m.name
}

// SetName names this instance.
func (m *Manager) SetName(name string) {
	m.name = name
}

// ErrorCode returns the code of the last failed validation, 0 on success.
func (m *Manager) ErrorCode() int {
	return m.state.Code()
}

// ErrorMsg returns the message of the last failed validation.
func (m *Manager) ErrorMsg() string {
	return m.state.Msg()
}

// Options returns the configured assignment. Unconfigured lists are
// reported as typed but unset.
func (m *Manager) Options() *options.Options {
	opts := options.New()
	putGroups(opts, KeyInputGroups, m.inputGroups)
	putGroups(opts, KeyOutputGroups, m.outputGroups)

	return opts
}

func putGroups(opts *options.Options, key string, groups []int32) {
	if groups == nil {
		options.PutUnset(opts, key, options.TypeInt32s)
		return
	}
	options.Put(opts, key, slices.Clone(groups))
}

// SetOptions reads the group lists from opts. Absent keys keep their
// current value; an empty list restores the default assignment.
func (m *Manager) SetOptions(opts *options.Options) error {
	if groups, status := options.Get[[]int32](opts, KeyInputGroups); status == options.KeySet {
		m.inputGroups = cloneOrNil(groups)
	}
	if groups, status := options.Get[[]int32](opts, KeyOutputGroups); status == options.KeySet {
		m.outputGroups = cloneOrNil(groups)
	}

	return nil
}

func cloneOrNil(groups []int32) []int32 {
	if len(groups) == 0 {
		return nil
	}

	return slices.Clone(groups)
}

// Configuration reports nothing beyond the defaults; the manager is plain data.
func (m *Manager) Configuration() *options.Options {
	return options.New()
}

// Documentation describes the option keys.
func (m *Manager) Documentation() *options.Options {
	docs := options.New()
	options.Put(docs, KeyInputGroups, "group id of each input buffer, defaults to one group per buffer")
	options.Put(docs, KeyOutputGroups, "group id of each output buffer, defaults to the input assignment")

	return docs
}

// NormalizeAndValidate computes the effective assignment for ins and outs.
//
// Unconfigured inputs get one group per buffer. Unconfigured outputs reuse
// the input assignment when both sides have the same number of buffers and
// one group per buffer otherwise.
//
// Returns:
//   - error: ErrInvalidGrouping if a configured list does not match the
//     number of buffers, or if inputs and outputs do not use the same set
//     of group ids
func (m *Manager) NormalizeAndValidate(ins, outs []*data.Data) error {
	m.state.Clear()
	m.effectiveInputs, m.effectiveOutputs = nil, nil

	effectiveIn := m.inputGroups
	if effectiveIn == nil {
		effectiveIn = identity(len(ins))
	} else if len(effectiveIn) != len(ins) {
		return m.state.SetCode(errs.CodeGeneric, errs.ErrInvalidGrouping,
			"%s has %d entries but %d input buffers were supplied", KeyInputGroups, len(effectiveIn), len(ins))
	}

	effectiveOut := m.outputGroups
	switch {
	case effectiveOut == nil && len(outs) == len(ins):
		effectiveOut = effectiveIn
	case effectiveOut == nil:
		effectiveOut = identity(len(outs))
	case len(effectiveOut) != len(outs):
		return m.state.SetCode(errs.CodeGeneric, errs.ErrInvalidGrouping,
			"%s has %d entries but %d output buffers were supplied", KeyOutputGroups, len(effectiveOut), len(outs))
	}

	inIDs, outIDs := distinct(effectiveIn), distinct(effectiveOut)
	if !slices.Equal(inIDs, outIDs) {
		return m.state.SetCode(errs.CodeGeneric, errs.ErrInvalidGrouping,
			"input groups %v and output groups %v do not match", inIDs, outIDs)
	}

	m.effectiveInputs = slices.Clone(effectiveIn)
	m.effectiveOutputs = slices.Clone(effectiveOut)

	return nil
}

func identity(n int) []int32 {
	groups := make([]int32, n)
	for i := range groups {
		groups[i] = int32(i)
	}

	return groups
}

func distinct(groups []int32) []int32 {
	ids := slices.Clone(groups)
	slices.Sort(ids)

	return slices.Compact(ids)
}

// EffectiveInputGroups returns the group id of each input buffer as computed
// by the last successful NormalizeAndValidate.
func (m *Manager) EffectiveInputGroups() []int32 {
	return slices.Clone(m.effectiveInputs)
}

// EffectiveOutputGroups returns the group id of each output buffer.
func (m *Manager) EffectiveOutputGroups() []int32 {
	return slices.Clone(m.effectiveOutputs)
}

// GroupIDs returns the distinct group ids in ascending order.
func (m *Manager) GroupIDs() []int32 {
	return distinct(m.effectiveInputs)
}

// InputGroup returns the inputs assigned to id, in their original order.
func (m *Manager) InputGroup(ins []*data.Data, id int32) []*data.Data {
	return members(ins, m.effectiveInputs, id)
}

// OutputGroup returns the outputs assigned to id, in their original order.
func (m *Manager) OutputGroup(outs []*data.Data, id int32) []*data.Data {
	return members(outs, m.effectiveOutputs, id)
}

func members(buffers []*data.Data, groups []int32, id int32) []*data.Data {
	var group []*data.Data
	for i, g := range groups {
		if g == id && i < len(buffers) {
			group = append(group, buffers[i])
		}
	}

	return group
}

// Clone returns an independent copy.
func (m *Manager) Clone() *Manager {
	return &Manager{
		inputGroups:      slices.Clone(m.inputGroups),
		outputGroups:     slices.Clone(m.outputGroups),
		effectiveInputs:  slices.Clone(m.effectiveInputs),
		effectiveOutputs: slices.Clone(m.effectiveOutputs),
		name:             m.name,
	}
}
