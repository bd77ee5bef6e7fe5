package portal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/jadwal_sync/internal/model"
)

const schedulePage = `<!DOCTYPE html>
<html><body>
<div class="card">
<table class="table table-striped table-borderless">
  <thead><tr><th>No</th><th>Kode</th><th>Mata Kuliah</th><th>Jadwal</th><th>Ruang</th><th>Dosen</th></tr></thead>
  <tbody>
    <tr>
      <td>1</td><td>AKT101</td>
      <td>Akuntansi Keuangan - 3 SKS (Wajib)<br/>Kelas 1-01</td>
      <td>Senin, 14 Jul 2025 | 14:00 - 16:30</td>
      <td> G-301 </td>
      <td>Dr. Budi</td>
    </tr>
    <tr>
      <td>2</td><td>PJK201</td>
      <td>Perpajakan   Dasar<br>Kelas 1-02</td>
      <td>
        Selasa, 15 Jul 2025 |
        08:00 - 09:40
      </td>
      <td>Aula</td>
      <td>Ibu Sari</td>
    </tr>
    <tr><td colspan="6">Libur nasional</td></tr>
    <tr>
      <td>3</td><td>X</td><td><br/>tanpa judul</td><td>Rabu, 16 Jul 2025 | 10:00 - 11:00</td><td></td><td>-</td>
    </tr>
  </tbody>
</table>
</div>
</body></html>`

func TestParseSchedule(t *testing.T) {
	entries, err := ParseSchedule(strings.NewReader(schedulePage))
	require.NoError(t, err)

	assert.Equal(t, []model.RawScheduleEntry{
		{CourseName: "Akuntansi Keuangan", Room: "G-301", ScheduleText: "Senin, 14 Jul 2025 | 14:00 - 16:30"},
		{CourseName: "Perpajakan Dasar", Room: "Aula", ScheduleText: "Selasa, 15 Jul 2025 | 08:00 - 09:40"},
		{CourseName: "Tanpa Nama", Room: "", ScheduleText: "Rabu, 16 Jul 2025 | 10:00 - 11:00"},
	}, entries)
}

func TestParseSchedule_NoTable(t *testing.T) {
	entries, err := ParseSchedule(strings.NewReader(`<html><body><form action="/auth/masuk"></form></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSKSSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Statistika - 2 sks", "Statistika"},
		{"Statistika -2SKS praktikum", "Statistika"},
		{"Bahasa Inggris - Lanjutan", "Bahasa Inggris - Lanjutan"},
		{"Etika Profesi", "Etika Profesi"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sksSuffix.ReplaceAllString(tt.in, ""))
		})
	}
}
