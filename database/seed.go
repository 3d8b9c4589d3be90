package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jespitia/portal-ucundinamarca/security"
)

// Seed inserts the demonstration data set: one administrator, one student,
// a handful of traffic samples for today and their registration/login log
// entries. It is a no-op when usuarios already has rows.
func Seed(db *sql.DB, bcryptCost int) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM usuarios").Scan(&count); err != nil {
		return fmt.Errorf("failed to check usuarios: %w", err)
	}
	if count > 0 {
		return nil
	}

	adminHash, err := security.HashPassword("admin123", bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	estudianteHash, err := security.HashPassword("estudiante123", bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash estudiante password: %w", err)
	}

	now := time.Now()

	insertUsuario := `
		INSERT INTO usuarios (tipo_documento_id, documento, nombre, correo, telefono, contrasena, rol, activo, fecha_registro)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)
	`

	res, err := db.Exec(insertUsuario,
		1, "1001234567", "Jennifer Espitia", "jennifer@ucundinamarca.edu.co",
		"3123456789", adminHash, "administrador", now)
	if err != nil {
		return fmt.Errorf("failed to seed administrador: %w", err)
	}
	adminID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get admin ID: %w", err)
	}

	res, err = db.Exec(insertUsuario,
		1, "2009876543", "Leonardo Moscoso", "leo@ucundinamarca.edu.co",
		"3187654321", estudianteHash, "estudiante", now)
	if err != nil {
		return fmt.Errorf("failed to seed estudiante: %w", err)
	}
	estudianteID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get estudiante ID: %w", err)
	}

	hoy := now.Format("2006-01-02")
	trafico := []struct {
		zona        int
		hora        string
		dispositivo string
		usuarios    int
		anchoBanda  float64
		latencia    float64
	}{
		{1, "08:00", "portatil", 15, 45.2, 25.1},
		{1, "10:00", "movil", 25, 68.7, 32.4},
		{1, "12:00", "movil", 42, 95.3, 45.2},
		{2, "09:00", "portatil", 18, 156.8, 15.2},
		{3, "13:00", "movil", 55, 78.9, 38.6},
	}
	for _, t := range trafico {
		_, err := db.Exec(`
			INSERT INTO trafico_red (zona_id, fecha, hora, tipo_dispositivo, usuarios_conectados, ancho_banda_consumido, latencia_promedio)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.zona, hoy, t.hora, t.dispositivo, t.usuarios, t.anchoBanda, t.latencia)
		if err != nil {
			return fmt.Errorf("failed to seed trafico: %w", err)
		}
	}

	logs := []struct {
		usuarioID int64
		accion    string
	}{
		{adminID, "REGISTRO - Usuario administrador creado"},
		{estudianteID, "REGISTRO - Usuario estudiante creado"},
	}
	for _, l := range logs {
		_, err := db.Exec(`INSERT INTO logs_transacciones (usuario_id, accion, fecha_hora) VALUES (?, ?, ?)`,
			l.usuarioID, l.accion, now)
		if err != nil {
			return fmt.Errorf("failed to seed logs: %w", err)
		}
	}

	fmt.Println("✅ Datos de demostración insertados")
	return nil
}
