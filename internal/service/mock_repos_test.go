package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"einsatzplan/internal/model"
	"einsatzplan/internal/repository"
	pkgerrors "einsatzplan/pkg/errors"
	"einsatzplan/pkg/shifttime"
)

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) add(id, name, personnelNumber string, active bool) *model.Employee {
	e := &model.Employee{EmployeeID: id, Name: name, PersonnelNumber: personnelNumber, IsActive: active}
	m.employees[id] = e
	return e
}

func (m *mockEmployeeRepo) Create(_ context.Context, emp *model.Employee) error {
	for _, e := range m.employees {
		if e.Name == emp.Name {
			return pkgerrors.ErrDuplicate
		}
	}
	if emp.EmployeeID == "" {
		emp.EmployeeID = "emp-" + emp.Name
	}
	m.employees[emp.EmployeeID] = emp
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByName(_ context.Context, name string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.Name == name {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) List(_ context.Context, includeInactive bool, keyword string) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.employees {
		if !includeInactive && !e.IsActive {
			continue
		}
		if keyword != "" && !strings.Contains(e.Name, keyword) {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, emp *model.Employee) error {
	for id, e := range m.employees {
		if id != emp.EmployeeID && e.Name == emp.Name {
			return pkgerrors.ErrDuplicate
		}
	}
	cp := *emp
	m.employees[emp.EmployeeID] = &cp
	return nil
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id string) error {
	delete(m.employees, id)
	return nil
}

// ── Mock SiteRepository ──

type mockSiteRepo struct {
	sites map[string]*model.Site
}

func newMockSiteRepo() *mockSiteRepo {
	return &mockSiteRepo{sites: make(map[string]*model.Site)}
}

// add registers a site whose slot ids are "<siteID>-<label>".
func (m *mockSiteRepo) add(id, name string, labels ...string) *model.Site {
	s := &model.Site{SiteID: id, Name: name}
	for _, l := range labels {
		s.Slots = append(s.Slots, model.Slot{SlotID: id + "-" + l, SiteID: id, Label: l})
	}
	m.sites[id] = s
	return s
}

func (m *mockSiteRepo) slot(slotID string) (*model.Site, *model.Slot) {
	for _, s := range m.sites {
		for i := range s.Slots {
			if s.Slots[i].SlotID == slotID {
				return s, &s.Slots[i]
			}
		}
	}
	return nil, nil
}

func (m *mockSiteRepo) Create(_ context.Context, site *model.Site) error {
	for _, s := range m.sites {
		if s.Name == site.Name {
			return pkgerrors.ErrDuplicate
		}
	}
	if site.SiteID == "" {
		site.SiteID = "site-" + site.Name
	}
	for i := range site.Slots {
		site.Slots[i].SiteID = site.SiteID
		if site.Slots[i].SlotID == "" {
			site.Slots[i].SlotID = site.SiteID + "-" + site.Slots[i].Label
		}
	}
	m.sites[site.SiteID] = site
	return nil
}

func (m *mockSiteRepo) GetByID(_ context.Context, id string) (*model.Site, error) {
	if s, ok := m.sites[id]; ok {
		cp := *s
		cp.Slots = append([]model.Slot(nil), s.Slots...)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSiteRepo) List(_ context.Context) ([]model.Site, error) {
	var result []model.Site
	for _, s := range m.sites {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockSiteRepo) Update(_ context.Context, site *model.Site) error {
	for id, s := range m.sites {
		if id != site.SiteID && s.Name == site.Name {
			return pkgerrors.ErrDuplicate
		}
	}
	s := m.sites[site.SiteID]
	s.Name, s.ContactPerson, s.ContactPhone = site.Name, site.ContactPerson, site.ContactPhone
	return nil
}

func (m *mockSiteRepo) Delete(_ context.Context, id string) error {
	delete(m.sites, id)
	return nil
}

func (m *mockSiteRepo) CreateSlot(_ context.Context, slot *model.Slot) error {
	s, ok := m.sites[slot.SiteID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, sl := range s.Slots {
		if sl.Label == slot.Label {
			return pkgerrors.ErrDuplicate
		}
	}
	if slot.SlotID == "" {
		slot.SlotID = slot.SiteID + "-" + slot.Label
	}
	s.Slots = append(s.Slots, *slot)
	return nil
}

func (m *mockSiteRepo) GetSlot(_ context.Context, siteID, slotID string) (*model.Slot, error) {
	if s, ok := m.sites[siteID]; ok {
		for _, sl := range s.Slots {
			if sl.SlotID == slotID {
				cp := sl
				return &cp, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSiteRepo) UpdateSlot(_ context.Context, slot *model.Slot) error {
	s := m.sites[slot.SiteID]
	for i := range s.Slots {
		if s.Slots[i].SlotID != slot.SlotID && s.Slots[i].Label == slot.Label {
			return pkgerrors.ErrDuplicate
		}
	}
	for i := range s.Slots {
		if s.Slots[i].SlotID == slot.SlotID {
			s.Slots[i].Label = slot.Label
		}
	}
	return nil
}

func (m *mockSiteRepo) DeleteSlot(_ context.Context, siteID, slotID string) error {
	s := m.sites[siteID]
	kept := s.Slots[:0]
	for _, sl := range s.Slots {
		if sl.SlotID != slotID {
			kept = append(kept, sl)
		}
	}
	s.Slots = kept
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	rows       []model.Assignment
	sites      *mockSiteRepo
	replaceErr error
	lookupErr  error
	replaces   int
}

func newMockAssignmentRepo(sites *mockSiteRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{sites: sites}
}

// add stores a saved assignment; times are "HH:MM" text.
func (m *mockAssignmentRepo) add(date, slotID, employeeID, start, end string, brk float64) {
	site, _ := m.sites.slot(slotID)
	a := model.Assignment{
		AssignmentID: fmt.Sprintf("a-%d", len(m.rows)+1),
		WorkDate:     mustDay(date),
		SiteID:       site.SiteID,
		SlotID:       slotID,
		StartTime:    parseClock(start),
		EndTime:      parseClock(end),
		BreakHours:   brk,
	}
	if employeeID != "" {
		id := employeeID
		a.EmployeeID = &id
	}
	a.Hours = shifttime.ComputeHours(a.StartTime, a.EndTime, a.BreakHours)
	m.rows = append(m.rows, a)
}

func (m *mockAssignmentRepo) preload(a model.Assignment) model.Assignment {
	if site, slot := m.sites.slot(a.SlotID); site != nil {
		a.Site = site
		a.Slot = slot
	}
	return a
}

func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

func (m *mockAssignmentRepo) ListBySiteAndRange(_ context.Context, siteID string, from, to time.Time) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.rows {
		if a.SiteID == siteID && inRange(a.WorkDate, from, to) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByEmployeeAndDate(_ context.Context, employeeID string, date time.Time, excludeSiteID string) ([]model.Assignment, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	var result []model.Assignment
	for _, a := range m.rows {
		if a.HasEmployee() && *a.EmployeeID == employeeID && a.WorkDate.Equal(date) && a.SiteID != excludeSiteID {
			result = append(result, m.preload(a))
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByEmployeeAndRange(_ context.Context, employeeID string, from, to time.Time) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.rows {
		if a.HasEmployee() && *a.EmployeeID == employeeID && inRange(a.WorkDate, from, to) {
			result = append(result, m.preload(a))
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByRange(_ context.Context, from, to time.Time) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.rows {
		if a.HasEmployee() && inRange(a.WorkDate, from, to) {
			result = append(result, m.preload(a))
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ReplaceSiteRange(_ context.Context, siteID string, from, to time.Time, rows []model.Assignment) error {
	m.replaces++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	kept := m.rows[:0]
	for _, a := range m.rows {
		if a.SiteID == siteID && inRange(a.WorkDate, from, to) {
			continue
		}
		kept = append(kept, a)
	}
	m.rows = append(kept, rows...)
	return nil
}

// ── Mock LeaveRepository ──

type mockLeaveRepo struct {
	entries map[string]model.LeaveEntry // key: date|employee
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{entries: make(map[string]model.LeaveEntry)}
}

func (m *mockLeaveRepo) add(date, employeeID, status string) {
	d := mustDay(date)
	m.entries[dayKey(d)+"|"+employeeID] = model.LeaveEntry{LeaveDate: d, EmployeeID: employeeID, Status: status}
}

func (m *mockLeaveRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*model.LeaveEntry, error) {
	if e, ok := m.entries[dayKey(date)+"|"+employeeID]; ok {
		return &e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRepo) ListByRange(_ context.Context, from, to time.Time) ([]model.LeaveEntry, error) {
	var result []model.LeaveEntry
	for _, e := range m.entries {
		if inRange(e.LeaveDate, from, to) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LeaveDate.Before(result[j].LeaveDate) })
	return result, nil
}

func (m *mockLeaveRepo) UpsertRange(_ context.Context, entries []model.LeaveEntry) error {
	for _, e := range entries {
		m.entries[dayKey(e.LeaveDate)+"|"+e.EmployeeID] = e
	}
	return nil
}

func (m *mockLeaveRepo) DeleteRange(_ context.Context, employeeID string, from, to time.Time) (int64, error) {
	var n int64
	for k, e := range m.entries {
		if e.EmployeeID == employeeID && inRange(e.LeaveDate, from, to) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

// ── fixture ──

// fixture is the demo data set: three employees and two sites.
type fixture struct {
	repo        *repository.Repository
	employees   *mockEmployeeRepo
	sites       *mockSiteRepo
	assignments *mockAssignmentRepo
	leave       *mockLeaveRepo
}

const (
	maxID   = "emp-max"
	erikaID = "emp-erika"
	aliID   = "emp-ali"

	haupttorID = "site-haupttor"
	empfangID  = "site-empfang"

	slotSchichtleiter = haupttorID + "-Schichtleiter"
	slotPfoertner     = haupttorID + "-Pförtner"
	slotRezeption     = empfangID + "-Rezeption"
)

func newFixture() *fixture {
	f := &fixture{
		employees: newMockEmployeeRepo(),
		sites:     newMockSiteRepo(),
		leave:     newMockLeaveRepo(),
	}
	f.assignments = newMockAssignmentRepo(f.sites)

	f.employees.add(maxID, "Max Mustermann", "1001", true)
	f.employees.add(erikaID, "Erika Musterfrau", "1002", true)
	f.employees.add(aliID, "Ali Yilmaz", "1003", true)

	f.sites.add(haupttorID, "Haupttor", "Schichtleiter", "Pförtner")
	f.sites.add(empfangID, "Empfang", "Rezeption")

	f.repo = &repository.Repository{
		Employee:   f.employees,
		Site:       f.sites,
		Assignment: f.assignments,
		Leave:      f.leave,
	}
	return f
}

func mustDay(s string) time.Time {
	d, err := parseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func parseClock(s string) float64 {
	if s == "" {
		return 0
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		panic(err)
	}
	return float64(h*60+m) / (24 * 60)
}

func ptr[T any](v T) *T { return &v }
