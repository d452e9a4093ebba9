package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/services/exporter"
	"github.com/DioBrando0203/expedientes/internal/spreadsheet"
	"github.com/dustin/go-humanize"
)

func (a *App) Login(ctx context.Context) error {
	user := a.config.User
	if user == "" {
		var err error
		if user, err = GetSimpleText(a.reader, "Usuario", a.out); err != nil {
			return err
		}
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	c, err := a.auth.Login(ctx, user, pw)
	if err != nil {
		return err
	}
	a.session = c
	fmt.Fprintf(a.out, "Sesión iniciada: %s (%s)\n", c.Name, c.Role)
	return nil
}

// Import prints the run log. A log file that could not be written is
// reported after the lines.
func (a *App) Import(ctx context.Context, path string) error {
	res, err := a.importer.Import(ctx, a.session, path)
	if res == nil {
		return err
	}

	for _, line := range res.Log {
		fmt.Fprintln(a.out, line)
	}
	if res.LogFile != "" {
		fmt.Fprintf(a.out, "Log guardado en %s\n", res.LogFile)
	}
	a.printPublish(res.Published, res.PublishError)
	return err
}

func (a *App) Validate(ctx context.Context, path string) error {
	rep, err := a.importer.Validate(ctx, path)
	if err != nil {
		return err
	}

	if len(rep.MissingSheets) > 0 {
		fmt.Fprintf(a.out, "Faltan las hojas: %s\n", strings.Join(rep.MissingSheets, ", "))
		return nil
	}
	for _, name := range spreadsheet.RequiredSheets {
		fmt.Fprintf(a.out, "%s: %d filas\n", name, rep.SheetRows[name])
	}
	if len(rep.MissingColumns) > 0 {
		fmt.Fprintf(a.out, "Faltan columnas en registros: %s\n", strings.Join(rep.MissingColumns, ", "))
	}
	if len(rep.InvalidDNIRows) > 0 {
		fmt.Fprintf(a.out, "Filas con DNI inválido: %s\n", joinInts(rep.InvalidDNIRows))
	}
	if len(rep.RepeatedCodes) > 0 {
		fmt.Fprintf(a.out, "Filas con expediente repetido: %s\n", joinInts(rep.RepeatedCodes))
	}
	if rep.Valid {
		fmt.Fprintln(a.out, "Estructura válida.")
	}
	return nil
}

func (a *App) Preview(ctx context.Context, path string, n int) error {
	p, err := a.importer.Preview(ctx, path, n)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILA\tNOMBRE\tDNI\tEXPEDIENTE\tESTADO\tREGISTRO\tOBSERVACIÓN")
	for _, r := range p.Rows {
		c := r.Candidate
		note := "ok"
		if !r.Valid {
			note = r.Motivo
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Fila, c.Nombre, c.DNI, orDash(c.Codigo), c.Estado, c.FechaRegistro, note)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Mostrando %d de %d filas.\n", len(p.Rows), p.Total)
	return nil
}

func (a *App) Export(ctx context.Context, path string) error {
	res, err := a.exporter.Export(ctx, a.session, path)
	if err != nil {
		return err
	}

	size := "?"
	if fi, err := os.Stat(res.FilePath); err == nil {
		size = humanize.Bytes(uint64(fi.Size()))
	}
	fmt.Fprintf(a.out, "Exportado a %s (%s): %d registros, %d personas, %d expedientes, %d estados\n",
		res.FilePath, size, res.Rows["registros"], res.Rows["personas"], res.Rows["expedientes"], res.Rows["estados"])
	a.printPublish(res.Published, res.PublishError)
	return nil
}

func (a *App) Template(_ context.Context, path string) error {
	if err := exporter.Template(path); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Plantilla creada en %s\n", path)
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	if err := a.session.Require(models.RoleOperator); err != nil {
		return err
	}
	s, err := a.records.Summary(ctx)
	if err != nil {
		return err
	}

	e := s.Expedientes
	fmt.Fprintf(a.out, "Expedientes: %s (entregados %s, pendientes %s)\n",
		humanize.Comma(e.Total), humanize.Comma(e.Entregados), humanize.Comma(e.Pendientes))
	fmt.Fprintf(a.out, "Personas con registros activos: %s\n", humanize.Comma(s.PersonasActivas))

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ESTADO\tTOTAL\tACTIVOS\tELIMINADOS")
	for _, st := range s.Estados {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", st.Nombre, st.Total, st.Activos, st.Eliminados)
	}
	if len(e.PorAnio) > 0 {
		fmt.Fprintln(tw, "\nAÑO\tSOLICITUDES\t\t")
		for _, y := range e.PorAnio {
			fmt.Fprintf(tw, "%s\t%d\t\t\n", y.Anio, y.Total)
		}
	}
	return tw.Flush()
}

// Bin lists the recycle bin.
func (a *App) Bin(ctx context.Context) error {
	if err := a.session.Require(models.RoleOperator); err != nil {
		return err
	}
	regs, err := a.records.Registros.ListDeleted(ctx)
	if err != nil {
		return err
	}
	if len(regs) == 0 {
		fmt.Fprintln(a.out, "La papelera está vacía.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tDNI\tEXPEDIENTE\tESTADO\tREGISTRO")
	for _, r := range regs {
		code := common.UnknownValue
		if r.Expediente != nil {
			code = *r.Expediente
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Nombre, r.DNI, code, r.Estado, r.FechaRegistro)
	}
	return tw.Flush()
}

func (a *App) Delete(ctx context.Context, id int64) error {
	if err := a.records.Registros.SoftDelete(ctx, a.session, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registro %d enviado a la papelera.\n", id)
	return nil
}

func (a *App) Restore(ctx context.Context, id int64) error {
	if err := a.records.Registros.Restore(ctx, a.session, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registro %d restaurado.\n", id)
	return nil
}

func (a *App) Purge(ctx context.Context, id int64) error {
	if err := a.records.Registros.Purge(ctx, a.session, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registro %d eliminado definitivamente.\n", id)
	return nil
}

func (a *App) Deliver(ctx context.Context, id int64, date string) error {
	day, err := a.records.Expedientes.MarkDelivered(ctx, a.session, id, date)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Expediente %d entregado el %s.\n", id, day)
	return nil
}

func (a *App) Pending(ctx context.Context) error {
	if err := a.session.Require(models.RoleOperator); err != nil {
		return err
	}
	list, err := a.records.Expedientes.Pending(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCÓDIGO\tPERSONA\tDNI\tSOLICITUD")
	for _, e := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, deref(e.Codigo), e.PersonaNombre, e.PersonaDNI, deref(e.FechaSolicitud))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d pendientes.\n", len(list))
	return nil
}

func (a *App) printPublish(loc, warning string) {
	if loc != "" {
		fmt.Fprintf(a.out, "Publicado en %s\n", loc)
	}
	if warning != "" {
		fmt.Fprintf(a.out, "Aviso: no se pudo publicar: %s\n", warning)
	}
}

func joinInts(v []int) string {
	s := make([]string, len(v))
	for i, n := range v {
		s[i] = fmt.Sprint(n)
	}
	return strings.Join(s, ", ")
}

func orDash(s string) string {
	if s == "" {
		return common.UnknownValue
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return common.UnknownValue
	}
	return *s
}
