// Package tui implementa el hilo de seguimiento como una vista de chat
// en terminal: historial arriba, composer abajo, envío optimista.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"easy-request/internal/domain/seguimiento"
	"easy-request/internal/domain/usuarios"
)

var (
	estiloTitulo    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	estiloMio       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	estiloAjeno     = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	estiloMeta      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	estiloPendiente = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	estiloError     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	estiloAyuda     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type eventoMsg seguimiento.Evento

type hechoMsg struct{}

// Model es el modelo bubbletea del chat de seguimiento.
type Model struct {
	ctrl   *seguimiento.Controller
	user   usuarios.User
	titulo string

	viewport viewport.Model
	textarea textarea.Model
	eventos  chan seguimiento.Evento
	listo    bool
	width    int
	height   int
}

// New arma el modelo del chat para una solicitud.
func New(api seguimiento.API, solicitudID, titulo string, user usuarios.User) Model {
	eventos := make(chan seguimiento.Evento, 64)
	ctrl := seguimiento.NewController(api, solicitudID, user, func(ev seguimiento.Evento) {
		// Nunca bloquear al controlador; si el canal está lleno el
		// siguiente evento ya forzará el re-render.
		select {
		case eventos <- ev:
		default:
		}
	})

	ta := textarea.New()
	ta.Placeholder = "Escribe un comentario (/adjuntar <ruta> para adjuntar)"
	ta.Prompt = "┃ "
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	return Model{
		ctrl:     ctrl,
		user:     user,
		titulo:   titulo,
		textarea: ta,
		eventos:  eventos,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.cargarCmd(), m.esperarEvento())
}

func (m Model) esperarEvento() tea.Cmd {
	return func() tea.Msg {
		return eventoMsg(<-m.eventos)
	}
}

func (m Model) cargarCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		_ = ctrl.Cargar(context.Background())
		return hechoMsg{}
	}
}

func (m Model) enviarCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		_ = ctrl.Enviar(context.Background())
		return hechoMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		alturaComposer := m.textarea.Height() + 4
		if !m.listo {
			m.viewport = viewport.New(msg.Width, msg.Height-alturaComposer)
			m.listo = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - alturaComposer
		}
		m.textarea.SetWidth(msg.Width - 2)
		m.viewport.SetContent(m.render())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlR:
			return m, tea.Batch(m.cargarCmd(), m.esperarEvento())
		case tea.KeyEnter:
			texto := strings.TrimSpace(m.textarea.Value())
			if ruta, ok := strings.CutPrefix(texto, "/adjuntar "); ok {
				_, _ = m.ctrl.AdjuntarArchivo(strings.TrimSpace(ruta))
				m.textarea.Reset()
				return m, m.esperarEvento()
			}
			if texto == "" {
				return m, nil
			}
			m.ctrl.SetBorrador(texto)
			m.textarea.Reset()
			return m, tea.Batch(m.enviarCmd(), m.esperarEvento())
		}

	case eventoMsg:
		switch seguimiento.Evento(msg) {
		case seguimiento.EventoScrollFinal:
			m.viewport.SetContent(m.render())
			m.viewport.GotoBottom()
		case seguimiento.EventoError:
			// Si el envío falló y el composer sigue vacío, recuperar
			// el texto para reintentar con Enter.
			if strings.TrimSpace(m.textarea.Value()) == "" {
				if b := m.ctrl.Borrador(); b != "" {
					m.textarea.SetValue(b)
				}
			}
			m.viewport.SetContent(m.render())
		default:
			m.viewport.SetContent(m.render())
		}
		cmds = append(cmds, m.esperarEvento())

	case hechoMsg:
		m.viewport.SetContent(m.render())
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// render arma el contenido del viewport a partir del snapshot.
func (m Model) render() string {
	snap := m.ctrl.Snapshot()

	var b strings.Builder
	switch snap.Estado {
	case seguimiento.EstadoInicial, seguimiento.EstadoCargando:
		if len(snap.Entradas) == 0 {
			b.WriteString(estiloMeta.Render("Cargando seguimiento..."))
			return b.String()
		}
	case seguimiento.EstadoError:
		b.WriteString(estiloError.Render("No se pudo cargar el hilo: " + snap.Error))
		b.WriteString("\n" + estiloAyuda.Render("ctrl+r para reintentar"))
		return b.String()
	}

	if len(snap.Entradas) == 0 {
		b.WriteString(estiloMeta.Render("Aún no hay comentarios. Escribe el primero."))
		return b.String()
	}

	ancho := m.viewport.Width
	if ancho <= 0 {
		ancho = 80
	}
	anchoMensaje := ancho * 3 / 4

	for i, e := range snap.Entradas {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderEntrada(e, ancho, anchoMensaje))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderEntrada(e seguimiento.Entrada, ancho, anchoMensaje int) string {
	mia := e.EsMia(m.user.ID)

	meta := fmt.Sprintf("%s · %s", e.Autor.Etiqueta(), e.Fecha.Local().Format("02/01/2006 15:04"))
	cuerpo := e.Texto
	if n := len(e.Adjuntos); n > 0 {
		nombres := make([]string, 0, n)
		for _, a := range e.Adjuntos {
			nombres = append(nombres, a.NombreArchivo)
		}
		cuerpo += "\n" + estiloMeta.Render("📎 "+strings.Join(nombres, ", "))
	}

	estilo := estiloAjeno
	align := lipgloss.Left
	if mia {
		estilo = estiloMio
		align = lipgloss.Right
	}

	bloque := estilo.Render(cuerpo) + "\n" + estiloMeta.Render(meta)
	if e.Pendiente {
		bloque += "\n" + estiloPendiente.Render("enviando...")
	}

	return lipgloss.NewStyle().
		Width(ancho).
		Align(align).
		Render(lipgloss.NewStyle().MaxWidth(anchoMensaje).Render(bloque))
}

func (m Model) View() string {
	if !m.listo {
		return "Cargando..."
	}

	snap := m.ctrl.Snapshot()

	var extras []string
	if len(snap.Adjuntos) > 0 {
		nombres := make([]string, 0, len(snap.Adjuntos))
		for _, a := range snap.Adjuntos {
			nombres = append(nombres, a.NombreArchivo)
		}
		extras = append(extras, estiloMeta.Render("Adjuntos pendientes: "+strings.Join(nombres, ", ")))
	}
	if snap.Error != "" && snap.Estado != seguimiento.EstadoError {
		extras = append(extras, estiloError.Render(snap.Error))
	}

	partes := []string{
		estiloTitulo.Render("Seguimiento " + m.titulo),
		m.viewport.View(),
	}
	partes = append(partes, extras...)
	partes = append(partes,
		m.textarea.View(),
		estiloAyuda.Render("enter envía · /adjuntar <ruta> · ctrl+r recarga · esc sale"),
	)
	return strings.Join(partes, "\n")
}
