// Package mocks provides test doubles for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"gomu.dev/pkg/gomu/internal/domain"
)

// MockWorkflow is a testify mock for domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a MockWorkflow that registers its expectations
// with the test's cleanup.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	m := &MockWorkflow{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// List mocks domain.Workflow.List.
func (m *MockWorkflow) List(ctx context.Context, args domain.ListArgs) error {
	ret := m.Called(ctx, args)
	return ret.Error(0)
}

// Instrument mocks domain.Workflow.Instrument.
func (m *MockWorkflow) Instrument(ctx context.Context, args domain.InstrumentArgs) error {
	ret := m.Called(ctx, args)
	return ret.Error(0)
}

// Run mocks domain.Workflow.Run.
func (m *MockWorkflow) Run(ctx context.Context, args domain.RunArgs) error {
	ret := m.Called(ctx, args)
	return ret.Error(0)
}

// View mocks domain.Workflow.View.
func (m *MockWorkflow) View(ctx context.Context, args domain.ViewArgs) error {
	ret := m.Called(ctx, args)
	return ret.Error(0)
}
