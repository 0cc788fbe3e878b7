package services

import (
	"context"
	"strings"
	"time"

	"github.com/hospitalms/hospital-api/internal/apperr"
	"github.com/hospitalms/hospital-api/internal/models"
	"github.com/hospitalms/hospital-api/internal/repository"
)

type fakePatientStore struct {
	nextID   uint
	patients map[uint]*models.Patient
}

func newFakePatientStore() *fakePatientStore {
	return &fakePatientStore{patients: make(map[uint]*models.Patient)}
}

func (f *fakePatientStore) GetAll(_ context.Context) ([]models.Patient, error) {
	out := make([]models.Patient, 0, len(f.patients))
	for _, p := range f.patients {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePatientStore) GetByID(_ context.Context, id uint) (*models.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, apperr.NotFound("patient %d not found", id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakePatientStore) Exists(_ context.Context, id uint) (bool, error) {
	_, ok := f.patients[id]
	return ok, nil
}

func (f *fakePatientStore) Create(_ context.Context, p *models.Patient) error {
	f.nextID++
	p.ID = f.nextID
	cp := *p
	f.patients[p.ID] = &cp
	return nil
}

func (f *fakePatientStore) Update(_ context.Context, p *models.Patient) error {
	cp := *p
	f.patients[p.ID] = &cp
	return nil
}

func (f *fakePatientStore) Delete(_ context.Context, id uint) error {
	delete(f.patients, id)
	return nil
}

func (f *fakePatientStore) SearchByNom(_ context.Context, keyword string, _, _ int) ([]models.Patient, error) {
	var out []models.Patient
	for _, p := range f.patients {
		if strings.Contains(strings.ToLower(p.Nom), strings.ToLower(keyword)) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePatientStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.patients)), nil
}

func (f *fakePatientStore) CountMalade(_ context.Context) (int64, error) {
	var n int64
	for _, p := range f.patients {
		if p.Malade {
			n++
		}
	}
	return n, nil
}

type fakeMedecinStore struct {
	nextID   uint
	medecins map[uint]*models.Medecin
}

func newFakeMedecinStore() *fakeMedecinStore {
	return &fakeMedecinStore{medecins: make(map[uint]*models.Medecin)}
}

func (f *fakeMedecinStore) GetAll(_ context.Context) ([]models.Medecin, error) {
	out := make([]models.Medecin, 0, len(f.medecins))
	for _, m := range f.medecins {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMedecinStore) GetByID(_ context.Context, id uint) (*models.Medecin, error) {
	m, ok := f.medecins[id]
	if !ok {
		return nil, apperr.NotFound("medecin %d not found", id)
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMedecinStore) GetByMatricule(_ context.Context, matricule string) (*models.Medecin, error) {
	for _, m := range f.medecins {
		if m.Matricule == matricule {
			cp := *m
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("medecin with matricule %s not found", matricule)
}

func (f *fakeMedecinStore) Exists(_ context.Context, id uint) (bool, error) {
	_, ok := f.medecins[id]
	return ok, nil
}

func (f *fakeMedecinStore) Create(_ context.Context, m *models.Medecin) error {
	f.nextID++
	m.ID = f.nextID
	cp := *m
	f.medecins[m.ID] = &cp
	return nil
}

func (f *fakeMedecinStore) Update(_ context.Context, m *models.Medecin) error {
	cp := *m
	f.medecins[m.ID] = &cp
	return nil
}

func (f *fakeMedecinStore) Delete(_ context.Context, id uint) error {
	delete(f.medecins, id)
	return nil
}

func (f *fakeMedecinStore) SearchByNom(_ context.Context, keyword string, _, _ int) ([]models.Medecin, error) {
	var out []models.Medecin
	for _, m := range f.medecins {
		if strings.Contains(strings.ToLower(m.Nom), strings.ToLower(keyword)) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMedecinStore) GetBySpecialite(_ context.Context, specialite string) ([]models.Medecin, error) {
	var out []models.Medecin
	for _, m := range f.medecins {
		if m.Specialite == specialite {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMedecinStore) GetDisponibles(_ context.Context) ([]models.Medecin, error) {
	var out []models.Medecin
	for _, m := range f.medecins {
		if m.Disponible {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMedecinStore) GetByDepartement(_ context.Context, departementID uint) ([]models.Medecin, error) {
	var out []models.Medecin
	for _, m := range f.medecins {
		if m.DepartementID != nil && *m.DepartementID == departementID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMedecinStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.medecins)), nil
}

func (f *fakeMedecinStore) CountDisponibles(_ context.Context) (int64, error) {
	var n int64
	for _, m := range f.medecins {
		if m.Disponible {
			n++
		}
	}
	return n, nil
}

type fakeDepartementStore struct {
	nextID       uint
	departements map[uint]*models.Departement
}

func newFakeDepartementStore() *fakeDepartementStore {
	return &fakeDepartementStore{departements: make(map[uint]*models.Departement)}
}

func (f *fakeDepartementStore) GetAll(_ context.Context) ([]models.Departement, error) {
	out := make([]models.Departement, 0, len(f.departements))
	for _, d := range f.departements {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeDepartementStore) GetByID(_ context.Context, id uint) (*models.Departement, error) {
	d, ok := f.departements[id]
	if !ok {
		return nil, apperr.NotFound("departement %d not found", id)
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDepartementStore) Create(_ context.Context, d *models.Departement) error {
	f.nextID++
	d.ID = f.nextID
	cp := *d
	f.departements[d.ID] = &cp
	return nil
}

func (f *fakeDepartementStore) Update(_ context.Context, d *models.Departement) error {
	cp := *d
	f.departements[d.ID] = &cp
	return nil
}

func (f *fakeDepartementStore) Delete(_ context.Context, id uint) error {
	delete(f.departements, id)
	return nil
}

func (f *fakeDepartementStore) SearchByNom(_ context.Context, keyword string, _, _ int) ([]models.Departement, error) {
	var out []models.Departement
	for _, d := range f.departements {
		if strings.Contains(strings.ToLower(d.Nom), strings.ToLower(keyword)) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDepartementStore) GetActifs(_ context.Context) ([]models.Departement, error) {
	var out []models.Departement
	for _, d := range f.departements {
		if d.Actif {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDepartementStore) GetByCapaciteMin(_ context.Context, capaciteMin int) ([]models.Departement, error) {
	var out []models.Departement
	for _, d := range f.departements {
		if d.CapaciteLits >= capaciteMin {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDepartementStore) GetByChef(_ context.Context, medecinID uint) (*models.Departement, error) {
	for _, d := range f.departements {
		if d.ChefDepartementID != nil && *d.ChefDepartementID == medecinID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("no departement led by medecin %d", medecinID)
}

func (f *fakeDepartementStore) CountMedecinsParDepartement(_ context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (f *fakeDepartementStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.departements)), nil
}

type fakeMedicamentStore struct {
	nextID      uint
	medicaments map[uint]*models.Medicament
}

func newFakeMedicamentStore() *fakeMedicamentStore {
	return &fakeMedicamentStore{medicaments: make(map[uint]*models.Medicament)}
}

func (f *fakeMedicamentStore) GetAll(_ context.Context) ([]models.Medicament, error) {
	out := make([]models.Medicament, 0, len(f.medicaments))
	for _, m := range f.medicaments {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMedicamentStore) GetByID(_ context.Context, id uint) (*models.Medicament, error) {
	m, ok := f.medicaments[id]
	if !ok {
		return nil, apperr.NotFound("medicament %d not found", id)
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMedicamentStore) Create(_ context.Context, m *models.Medicament) error {
	f.nextID++
	m.ID = f.nextID
	cp := *m
	f.medicaments[m.ID] = &cp
	return nil
}

func (f *fakeMedicamentStore) Update(_ context.Context, m *models.Medicament) error {
	cp := *m
	f.medicaments[m.ID] = &cp
	return nil
}

func (f *fakeMedicamentStore) Delete(_ context.Context, id uint) error {
	delete(f.medicaments, id)
	return nil
}

func (f *fakeMedicamentStore) SearchByNom(_ context.Context, keyword string, _, _ int) ([]models.Medicament, error) {
	var out []models.Medicament
	for _, m := range f.medicaments {
		if strings.Contains(strings.ToLower(m.Nom), strings.ToLower(keyword)) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMedicamentStore) GetByDci(_ context.Context, dci string) ([]models.Medicament, error) {
	var out []models.Medicament
	for _, m := range f.medicaments {
		if m.Dci == dci {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMedicamentStore) GetByLaboratoire(_ context.Context, laboratoire string) ([]models.Medicament, error) {
	var out []models.Medicament
	for _, m := range f.medicaments {
		if m.Laboratoire == laboratoire {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMedicamentStore) GetDisponibles(_ context.Context) ([]models.Medicament, error) {
	var out []models.Medicament
	for _, m := range f.medicaments {
		if m.Disponible {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMedicamentStore) GetEnAlerte(_ context.Context) ([]models.Medicament, error) {
	var out []models.Medicament
	for _, m := range f.medicaments {
		if m.QuantiteStock <= m.SeuilAlerte {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMedicamentStore) GetExpiringBefore(_ context.Context, date time.Time) ([]models.Medicament, error) {
	var out []models.Medicament
	for _, m := range f.medicaments {
		if m.DateExpiration != nil && m.DateExpiration.Before(date) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMedicamentStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.medicaments)), nil
}

func (f *fakeMedicamentStore) CountEnAlerte(_ context.Context) (int64, error) {
	items, _ := f.GetEnAlerte(context.Background())
	return int64(len(items)), nil
}

func (f *fakeMedicamentStore) CountExpiringBefore(_ context.Context, date time.Time) (int64, error) {
	items, _ := f.GetExpiringBefore(context.Background(), date)
	return int64(len(items)), nil
}

type fakePrescriptionStore struct {
	nextID        uint
	prescriptions map[uint]*models.Prescription
}

func newFakePrescriptionStore() *fakePrescriptionStore {
	return &fakePrescriptionStore{prescriptions: make(map[uint]*models.Prescription)}
}

func (f *fakePrescriptionStore) GetAll(_ context.Context) ([]models.Prescription, error) {
	out := make([]models.Prescription, 0, len(f.prescriptions))
	for _, p := range f.prescriptions {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePrescriptionStore) GetByID(_ context.Context, id uint) (*models.Prescription, error) {
	p, ok := f.prescriptions[id]
	if !ok {
		return nil, apperr.NotFound("prescription %d not found", id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakePrescriptionStore) Create(_ context.Context, p *models.Prescription) error {
	f.nextID++
	p.ID = f.nextID
	cp := *p
	f.prescriptions[p.ID] = &cp
	return nil
}

func (f *fakePrescriptionStore) Update(_ context.Context, p *models.Prescription) error {
	cp := *p
	f.prescriptions[p.ID] = &cp
	return nil
}

func (f *fakePrescriptionStore) Delete(_ context.Context, id uint) error {
	delete(f.prescriptions, id)
	return nil
}

func (f *fakePrescriptionStore) GetByPatient(_ context.Context, patientID uint) ([]models.Prescription, error) {
	var out []models.Prescription
	for _, p := range f.prescriptions {
		if p.PatientID == patientID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePrescriptionStore) GetByMedecin(_ context.Context, medecinID uint) ([]models.Prescription, error) {
	var out []models.Prescription
	for _, p := range f.prescriptions {
		if p.MedecinID == medecinID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePrescriptionStore) GetByPatientAndStatut(_ context.Context, patientID uint, statut models.StatutPrescription) ([]models.Prescription, error) {
	var out []models.Prescription
	for _, p := range f.prescriptions {
		if p.PatientID == patientID && p.Statut == statut {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePrescriptionStore) GetByPeriode(_ context.Context, debut, fin time.Time) ([]models.Prescription, error) {
	var out []models.Prescription
	for _, p := range f.prescriptions {
		if !p.DatePrescription.Before(debut) && p.DatePrescription.Before(fin) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePrescriptionStore) CountParMedecin(_ context.Context, _, _ time.Time) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (f *fakePrescriptionStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.prescriptions)), nil
}

type fakeLigneStore struct {
	nextID uint
	lignes map[uint]*models.LignePrescription
}

func newFakeLigneStore() *fakeLigneStore {
	return &fakeLigneStore{lignes: make(map[uint]*models.LignePrescription)}
}

func (f *fakeLigneStore) GetByID(_ context.Context, id uint) (*models.LignePrescription, error) {
	l, ok := f.lignes[id]
	if !ok {
		return nil, apperr.NotFound("ligne %d not found", id)
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLigneStore) Create(_ context.Context, l *models.LignePrescription) error {
	f.nextID++
	l.ID = f.nextID
	cp := *l
	f.lignes[l.ID] = &cp
	return nil
}

func (f *fakeLigneStore) Delete(_ context.Context, id uint) error {
	delete(f.lignes, id)
	return nil
}

func (f *fakeLigneStore) GetByPrescription(_ context.Context, prescriptionID uint) ([]models.LignePrescription, error) {
	var out []models.LignePrescription
	for _, l := range f.lignes {
		if l.PrescriptionID == prescriptionID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeLigneStore) ExistsByPrescriptionAndMedicament(_ context.Context, prescriptionID, medicamentID uint) (bool, error) {
	for _, l := range f.lignes {
		if l.PrescriptionID == prescriptionID && l.MedicamentID == medicamentID {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserStore struct {
	nextID     uint
	nextRoleID uint
	users      map[uint]*models.User
	roles      map[string]*models.Role
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users: make(map[uint]*models.User),
		roles: make(map[string]*models.Role),
	}
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user %d not found", id)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user %s not found", username)
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) error {
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, u *models.User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) UsernameTaken(_ context.Context, username string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) EmailTaken(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) GetRoleByName(_ context.Context, name string) (*models.Role, error) {
	r, ok := f.roles[name]
	if !ok {
		return nil, apperr.NotFound("role %s not found", name)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeUserStore) EnsureRole(_ context.Context, name, description string) (*models.Role, error) {
	if r, ok := f.roles[name]; ok {
		cp := *r
		return &cp, nil
	}
	f.nextRoleID++
	r := &models.Role{ID: f.nextRoleID, Name: name, Description: description}
	f.roles[name] = r
	cp := *r
	return &cp, nil
}

func (f *fakeUserStore) AddRole(_ context.Context, user *models.User, role *models.Role) error {
	u := f.users[user.ID]
	u.Roles = append(u.Roles, *role)
	return nil
}

func (f *fakeUserStore) RemoveRole(_ context.Context, user *models.User, role *models.Role) error {
	u := f.users[user.ID]
	kept := u.Roles[:0]
	for _, r := range u.Roles {
		if r.Name != role.Name {
			kept = append(kept, r)
		}
	}
	u.Roles = kept
	return nil
}

type fakeRendezVousStore struct {
	nextID     uint
	rendezVous map[uint]*models.RendezVous
}

func newFakeRendezVousStore() *fakeRendezVousStore {
	return &fakeRendezVousStore{rendezVous: make(map[uint]*models.RendezVous)}
}

func (f *fakeRendezVousStore) GetAll(_ context.Context) ([]models.RendezVous, error) {
	out := make([]models.RendezVous, 0, len(f.rendezVous))
	for _, r := range f.rendezVous {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRendezVousStore) GetByID(_ context.Context, id uint) (*models.RendezVous, error) {
	r, ok := f.rendezVous[id]
	if !ok {
		return nil, apperr.NotFound("rendez-vous %d not found", id)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRendezVousStore) ExistsOverlapping(_ context.Context, medecinID uint, debut, fin time.Time) (bool, error) {
	for _, r := range f.rendezVous {
		if r.MedecinID == medecinID && !r.DateHeure.Before(debut) && r.DateHeure.Before(fin) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRendezVousStore) CreateIfSlotFree(ctx context.Context, rdv *models.RendezVous) error {
	taken, _ := f.ExistsOverlapping(ctx, rdv.MedecinID, rdv.DateHeure, rdv.Fin())
	if taken {
		return repository.ErrSlotTaken
	}
	f.nextID++
	rdv.ID = f.nextID
	cp := *rdv
	f.rendezVous[rdv.ID] = &cp
	return nil
}

func (f *fakeRendezVousStore) Update(_ context.Context, rdv *models.RendezVous) error {
	cp := *rdv
	f.rendezVous[rdv.ID] = &cp
	return nil
}

func (f *fakeRendezVousStore) Delete(_ context.Context, id uint) error {
	delete(f.rendezVous, id)
	return nil
}

func (f *fakeRendezVousStore) GetByPatient(_ context.Context, patientID uint) ([]models.RendezVous, error) {
	var out []models.RendezVous
	for _, r := range f.rendezVous {
		if r.PatientID == patientID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRendezVousStore) GetByMedecin(_ context.Context, medecinID uint) ([]models.RendezVous, error) {
	var out []models.RendezVous
	for _, r := range f.rendezVous {
		if r.MedecinID == medecinID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRendezVousStore) GetByMedecinAndStatut(_ context.Context, medecinID uint, statut models.StatutRendezVous) ([]models.RendezVous, error) {
	var out []models.RendezVous
	for _, r := range f.rendezVous {
		if r.MedecinID == medecinID && r.Statut == statut {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRendezVousStore) GetByPeriode(_ context.Context, debut, fin time.Time) ([]models.RendezVous, error) {
	var out []models.RendezVous
	for _, r := range f.rendezVous {
		if !r.DateHeure.Before(debut) && r.DateHeure.Before(fin) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRendezVousStore) GetByMedecinAndPeriode(ctx context.Context, medecinID uint, debut, fin time.Time) ([]models.RendezVous, error) {
	all, _ := f.GetByPeriode(ctx, debut, fin)
	var out []models.RendezVous
	for _, r := range all {
		if r.MedecinID == medecinID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRendezVousStore) GetDuJour(ctx context.Context, now time.Time) ([]models.RendezVous, error) {
	debut := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	all, _ := f.GetByPeriode(ctx, debut, debut.AddDate(0, 0, 1))
	var out []models.RendezVous
	for _, r := range all {
		if r.Statut != models.RendezVousAnnule {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRendezVousStore) CountDuJour(ctx context.Context, now time.Time) (int64, error) {
	out, _ := f.GetDuJour(ctx, now)
	return int64(len(out)), nil
}

func (f *fakeRendezVousStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.rendezVous)), nil
}
