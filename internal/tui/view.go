package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/view"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n")
	b.WriteString(m.searchBox.View())
	b.WriteString("\n\n")

	if m.snap.Error != "" {
		b.WriteString(m.styles.Error.Render(m.snap.Error))
		b.WriteString("\n\n")
	}

	switch m.mode {
	case ModeForm:
		b.WriteString(m.renderForm())
	case ModeDetail:
		b.WriteString(m.renderDetail())
	default:
		b.WriteString(m.renderList())
	}

	if m.mode == ModeConfirm {
		b.WriteString("\n")
		b.WriteString(m.styles.Notice.Render(m.confirmPrompt()))
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Notice.Render(m.notice))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	stats := fmt.Sprintf("%d books, %d available, %d on reading list",
		m.snap.Stats.Total, m.snap.Stats.Available, len(m.snap.ReadingList))
	if m.snap.Loading {
		stats += " (loading)"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Title.Render("Bookshelf"),
		"  ",
		m.styles.Stats.Render(stats),
	)
}

func (m Model) renderTabs() string {
	all := m.styles.Tab.Render("All Books")
	reading := m.styles.Tab.Render(fmt.Sprintf("Reading List (%d)", len(m.snap.ReadingList)))
	if m.snap.Tab == view.TabReading {
		reading = m.styles.ActiveTab.Render(fmt.Sprintf("Reading List (%d)", len(m.snap.ReadingList)))
	} else {
		all = m.styles.ActiveTab.Render("All Books")
	}
	return all + "  " + reading
}

func (m Model) renderFilters() string {
	genre := m.snap.SelectedGenre
	if genre == "" {
		genre = view.AllGenres
	}
	return m.styles.Label.Render("Genre: ") + genre + "   " +
		m.styles.Label.Render("Sort: ") + m.snap.Sort.Label()
}

func (m Model) renderList() string {
	if len(m.snap.Visible) == 0 {
		if m.snap.Loading {
			return m.styles.Muted.Render("Loading books...") + "\n"
		}
		if m.snap.Tab == view.TabReading {
			return m.styles.Muted.Render("Your reading list is empty.") + "\n"
		}
		return m.styles.Muted.Render("No books found.") + "\n"
	}

	start, end := m.window()
	var b strings.Builder
	for i := start; i < end; i++ {
		book := m.snap.Visible[i]
		line := m.renderBook(book)
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(m.styles.Item.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// window returns the range of rows that fits the terminal around the cursor.
func (m Model) window() (int, int) {
	rows := m.height - 12
	if rows < 3 {
		rows = 3
	}
	total := len(m.snap.Visible)
	if total <= rows {
		return 0, total
	}
	start := m.cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > total {
		start = total - rows
	}
	return start, start + rows
}

func (m Model) renderBook(book entities.Book) string {
	mark := " "
	if m.snap.Bookmarked(book.ID) {
		mark = m.styles.Bookmark.Render("*")
	}

	status := m.styles.Available.Render("available")
	if !book.Available {
		status = m.styles.Lent.Render("checked out")
	}

	year := ""
	if book.Year != 0 {
		year = " (" + strconv.Itoa(book.Year) + ")"
	}

	return fmt.Sprintf("%s %s%s by %s  %s  %s",
		mark, book.Title, year, book.Author,
		m.styles.Muted.Render(book.GenreOrDefault()), status)
}

func (m Model) renderDetail() string {
	book := m.snap.Selected
	if book == nil {
		return m.styles.Muted.Render("Book is no longer available.") + "\n"
	}

	year := "Unknown"
	if book.Year != 0 {
		year = strconv.Itoa(book.Year)
	}
	availability := "Available"
	if !book.Available {
		availability = "Checked out"
	}

	rows := []string{
		m.styles.Title.Render(book.Title),
		m.styles.Label.Render("Author:    ") + book.Author,
		m.styles.Label.Render("Genre:     ") + book.GenreOrDefault(),
		m.styles.Label.Render("Year:      ") + year,
		m.styles.Label.Render("Publisher: ") + book.PublisherText(),
		m.styles.Label.Render("Status:    ") + availability,
	}
	if book.Description != "" {
		rows = append(rows, "", book.Description)
	}
	return m.styles.Panel.Render(strings.Join(rows, "\n")) + "\n"
}

func (m Model) renderForm() string {
	title := "Add New Book"
	if m.form.editing() {
		title = "Edit Book"
	}

	rows := []string{m.styles.Title.Render(title)}
	for i, in := range m.form.inputs {
		label := fmt.Sprintf("%-7s", fieldLabels[i]+":")
		if i == m.form.focus {
			label = m.styles.Selected.Render(label)
		} else {
			label = m.styles.Label.Render(label)
		}
		rows = append(rows, label+" "+in.View())
	}
	rows = append(rows, "", m.styles.Help.Render("tab next field, enter save, esc cancel"))
	return m.styles.Panel.Render(strings.Join(rows, "\n")) + "\n"
}

func (m Model) confirmPrompt() string {
	title := string(m.pending)
	for _, b := range m.snap.Books {
		if b.ID == m.pending {
			title = b.Title
			break
		}
	}
	return fmt.Sprintf("Delete %q? (y/n)", title)
}

func (m Model) renderHelp() string {
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, k := range m.keys.ShortHelp() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.Help.Render(strings.Join(parts, "  "))
}
