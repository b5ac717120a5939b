package model

import (
	"github.com/sahilm/fuzzy"

	"github.com/studiowebux/rpccli/internal/catalog"
)

// List identifies one of the two lists of the selection tab
type List int

const (
	ListServices List = iota
	ListMethods
)

// SelectionModel tracks the selected service and method. Selections are kept
// by name so they survive filtering.
type SelectionModel struct {
	services []catalog.Service
	service  string
	method   string
	filters  [2]string
}

func NewSelectionModel(cat *catalog.Catalog) *SelectionModel {
	m := &SelectionModel{}
	if cat != nil {
		m.services = cat.Services
	}
	return m
}

// Services returns the services matching the service filter
func (m *SelectionModel) Services() []catalog.Service {
	query := m.filters[ListServices]
	if query == "" {
		return m.services
	}

	names := make([]string, len(m.services))
	for i, svc := range m.services {
		names[i] = svc.Name
	}
	matches := fuzzy.Find(query, names)
	out := make([]catalog.Service, len(matches))
	for i, match := range matches {
		out[i] = m.services[match.Index]
	}
	return out
}

// Methods returns the methods of the selected service matching the method filter
func (m *SelectionModel) Methods() []catalog.Method {
	svc := m.SelectedService()
	if svc == nil {
		return nil
	}

	query := m.filters[ListMethods]
	if query == "" {
		return svc.Methods
	}

	names := make([]string, len(svc.Methods))
	for i, method := range svc.Methods {
		names[i] = method.Name
	}
	matches := fuzzy.Find(query, names)
	out := make([]catalog.Method, len(matches))
	for i, match := range matches {
		out[i] = svc.Methods[match.Index]
	}
	return out
}

func (m *SelectionModel) SelectedService() *catalog.Service {
	for i := range m.services {
		if m.services[i].Name == m.service {
			return &m.services[i]
		}
	}
	return nil
}

func (m *SelectionModel) SelectedMethod() *catalog.Method {
	svc := m.SelectedService()
	if svc == nil || m.method == "" {
		return nil
	}
	for i := range svc.Methods {
		if svc.Methods[i].Name == m.method {
			return &svc.Methods[i]
		}
	}
	return nil
}

// NextService selects the following visible service, wrapping around.
// Changing service clears the method.
func (m *SelectionModel) NextService() {
	visible := m.Services()
	if len(visible) == 0 {
		return
	}
	idx := serviceIndex(visible, m.service)
	m.selectService(visible[(idx+1)%len(visible)].Name)
}

func (m *SelectionModel) PreviousService() {
	visible := m.Services()
	if len(visible) == 0 {
		return
	}
	idx := serviceIndex(visible, m.service)
	if idx <= 0 {
		idx = len(visible)
	}
	m.selectService(visible[idx-1].Name)
}

// NextMethod selects the following visible method. From no method it
// selects the first one.
func (m *SelectionModel) NextMethod() {
	visible := m.Methods()
	if len(visible) == 0 {
		return
	}
	idx := methodIndex(visible, m.method)
	m.method = visible[(idx+1)%len(visible)].Name
}

// PreviousMethod selects the preceding visible method. From no method it
// selects the last one.
func (m *SelectionModel) PreviousMethod() {
	visible := m.Methods()
	if len(visible) == 0 {
		return
	}
	idx := methodIndex(visible, m.method)
	if idx <= 0 {
		idx = len(visible)
	}
	m.method = visible[idx-1].Name
}

func (m *SelectionModel) ClearMethod() {
	m.method = ""
}

// SetFilter narrows a list. An empty query restores the full list.
func (m *SelectionModel) SetFilter(list List, query string) {
	m.filters[list] = query
}

func (m *SelectionModel) Filter(list List) string {
	return m.filters[list]
}

func (m *SelectionModel) selectService(name string) {
	if name == m.service {
		return
	}
	m.service = name
	m.method = ""
	m.filters[ListMethods] = ""
}

func serviceIndex(services []catalog.Service, name string) int {
	for i, svc := range services {
		if svc.Name == name {
			return i
		}
	}
	return -1
}

func methodIndex(methods []catalog.Method, name string) int {
	for i, method := range methods {
		if method.Name == name {
			return i
		}
	}
	return -1
}
