package scheduling

import (
	"fmt"
	"time"

	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
)

// ===============================
// Operating Windows
// ===============================

// Window delimita horários de entrada: um atendimento pode começar em
// qualquer horário com StartHour <= h < EndHour. O serviço pode terminar
// depois do fim da janela (última entrada), como no balcão real.
type Window struct {
	StartHour int
	EndHour   int
}

func (w Window) containsEntry(t time.Time) bool {
	h := t.Hour()
	return h >= w.StartHour && h < w.EndHour
}

// Janelas padrão: manhã e tarde, fechado no almoço.
var DefaultWindows = []Window{
	{StartHour: 9, EndHour: 11},
	{StartHour: 13, EndHour: 17},
}

// ===============================
// TimeSlot
// ===============================

// TimeSlot é a unidade canônica de agenda: dia + hora cheia de entrada.
// Horários quebrados (09:30) pertencem ao slot da hora (09:00).
type TimeSlot struct {
	Date        time.Time // meia-noite no fuso do petshop
	StartHour   int
	DurationMin int
}

func (s TimeSlot) Start() time.Time {
	return s.Date.Add(time.Duration(s.StartHour) * time.Hour)
}

func (s TimeSlot) End() time.Time {
	return s.Start().Add(time.Duration(s.DurationMin) * time.Minute)
}

func (s TimeSlot) DateKey() string {
	return s.Date.Format("2006-01-02")
}

// ===============================
// Calendar
// ===============================

type Calendar struct {
	windows []Window
}

func NewCalendar(windows []Window) *Calendar {
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	return &Calendar{windows: windows}
}

func (c *Calendar) windowsFor(service ServiceType) []Window {
	if p, ok := PolicyFor(service); ok && len(p.Windows) > 0 {
		return p.Windows
	}
	return c.windows
}

// EntryHours lista as horas cheias de entrada permitidas para o serviço.
func (c *Calendar) EntryHours(service ServiceType) []int {
	var hours []int
	for _, w := range c.windowsFor(service) {
		for h := w.StartHour; h < w.EndHour; h++ {
			hours = append(hours, h)
		}
	}
	return hours
}

// ResolveSlot canonicaliza o horário pedido no slot da hora de entrada.
// Falha com outside_operating_hours quando a entrada cai fora de todas
// as janelas do serviço. Função pura de configuração + entrada.
func (c *Calendar) ResolveSlot(service ServiceType, start time.Time) (TimeSlot, error) {
	p, ok := PolicyFor(service)
	if !ok {
		return TimeSlot{}, httperr.ErrBusiness("invalid_format")
	}

	for _, w := range c.windowsFor(service) {
		if w.containsEntry(start) {
			return TimeSlot{
				Date:        time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
				StartHour:   start.Hour(),
				DurationMin: p.DurationMin,
			}, nil
		}
	}

	return TimeSlot{}, httperr.ErrBusiness("outside_operating_hours")
}

// ===============================
// Ledger Keys
// ===============================

// LedgerKey identifica a ocupação de um slot: (petshop, serviço, dia, hora).
type LedgerKey struct {
	PetshopID uint
	Service   ServiceType
	Date      string // 2006-01-02
	StartHour int
}

func (k LedgerKey) String() string {
	return fmt.Sprintf("%d|%s|%s|%02d", k.PetshopID, k.Service, k.Date, k.StartHour)
}

func KeyForSlot(petshopID uint, service ServiceType, slot TimeSlot) LedgerKey {
	return LedgerKey{
		PetshopID: petshopID,
		Service:   service,
		Date:      slot.DateKey(),
		StartHour: slot.StartHour,
	}
}
