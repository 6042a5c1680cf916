// Package authz implementa la resolución de permisos efectivos: la función
// pura que combina las cuatro fuentes de verdad (rol de sistema, rol
// personalizado, aprovisionamiento de módulos y overrides por usuario) en una
// única decisión por clave de permiso.
//
// Orden de autoridad, de mayor a menor:
//
//	override explícito no vencido  >  resultado rol/rol-custom filtrado por módulo  >  default deny
//
// La resolución nunca falla por "sin permiso": la ausencia de un permiso es un
// resultado normal, no un error. Tanto el middleware HTTP como el endpoint de
// permisos efectivos consumen esta misma función, de modo que servidor y UI
// no pueden discrepar.
package authz

import (
	"time"

	"github.com/jhoicas/gastos-pro/internal/domain/entity"
)

// Procedencia de una decisión (qué fuente la determinó).
const (
	SourceSystemRole = "system_role"
	SourceCustomRole = "custom_role"
	SourceOverride   = "override"
	SourceModuleGate = "module_gate"
	SourceDefault    = "default_deny"
)

// Effective es la decisión final para una clave: concedida o no, y por qué.
type Effective struct {
	PermissionKey string
	Granted       bool
	Source        string
}

// Snapshot es el estado consistente leído por el caso de uso antes de
// resolver. Resolve no toca persistencia: opera solo sobre este struct,
// lo que permite probarlo sin base de datos.
type Snapshot struct {
	SystemRole      string
	CustomRole      *entity.CustomRole
	CustomRolePerms []entity.CustomRolePermission
	RoleAssignment  *entity.RoleAssignment
	CompanyModules  map[string]bool // moduleID -> habilitado a nivel empresa
	UserModules     map[string]bool // moduleID -> habilitado para el usuario
	Overrides       []entity.UserDataPermission
	Now             time.Time
}

// Resolve produce la decisión por cada clave del catálogo.
//
//  1. Línea base: set estático del rol de sistema.
//  2. Si hay un CustomRole asignado, activo y vigente, su set REEMPLAZA la
//     línea base (sustitución completa, no mezcla).
//  3. Filtro de módulo: una clave atada a un módulo solo sobrevive si el
//     módulo está habilitado para la empresa Y para el usuario.
//  4. Overrides: un override no vencido gana en ambas direcciones. Los
//     vencidos se descartan antes y cae al resultado del paso 3.
func Resolve(s Snapshot) map[string]Effective {
	now := s.Now
	if now.IsZero() {
		now = time.Now()
	}

	// Paso 1 y 2: qué concede el rol (sistema o custom) y con qué procedencia.
	granted, roleSource := roleGrants(s, now)

	out := make(map[string]Effective, len(entity.AllPermissionKeys()))
	for _, key := range entity.AllPermissionKeys() {
		eff := Effective{PermissionKey: key, Granted: false, Source: SourceDefault}

		if granted[key] {
			if moduleAllows(s, key) {
				eff.Granted = true
				eff.Source = roleSource
			} else {
				// El rol lo concede pero el módulo no está habilitado:
				// denegado con procedencia module_gate (la UI lo muestra
				// deshabilitado, no oculto).
				eff.Source = SourceModuleGate
			}
		}
		out[key] = eff
	}

	// Paso 4: overrides explícitos no vencidos, en ambas direcciones.
	for _, ov := range s.Overrides {
		if ov.IsExpired(now) {
			continue
		}
		if _, known := out[ov.PermissionKey]; !known {
			continue
		}
		out[ov.PermissionKey] = Effective{
			PermissionKey: ov.PermissionKey,
			Granted:       ov.IsGranted,
			Source:        SourceOverride,
		}
	}
	return out
}

// roleGrants calcula el set concedido por rol y su procedencia.
func roleGrants(s Snapshot, now time.Time) (map[string]bool, string) {
	useCustom := s.CustomRole != nil && s.CustomRole.IsActive && s.RoleAssignment.IsCurrent(now)

	granted := make(map[string]bool)
	if useCustom {
		for _, p := range s.CustomRolePerms {
			if p.IsGranted {
				granted[p.PermissionKey] = true
			}
		}
		return granted, SourceCustomRole
	}
	for _, key := range entity.SystemRolePermissions(s.SystemRole) {
		granted[key] = true
	}
	return granted, SourceSystemRole
}

// moduleAllows aplica el filtro de módulo: claves sin módulo pasan siempre;
// las atadas requieren habilitación a nivel empresa y usuario.
func moduleAllows(s Snapshot, key string) bool {
	moduleID := entity.ModuleForPermission(key)
	if moduleID == "" {
		return true
	}
	return s.CompanyModules[moduleID] && s.UserModules[moduleID]
}

// CheckPermission es el wrapper fino sobre Resolve: pertenencia de una clave.
func CheckPermission(s Snapshot, key string) bool {
	eff, ok := Resolve(s)[key]
	return ok && eff.Granted
}

// SafeActions particiona un set de claves solicitado para consumo de UI sin
// exponer los internos de la resolución.
type SafeActions struct {
	Allowed  []string // concedidas
	Disabled []string // el rol las concede pero el módulo no está licenciado
	Hidden   []string // denegadas: no revelar su existencia
}

// PartitionSafeActions clasifica las claves pedidas en allowed/disabled/hidden.
// Claves desconocidas se reportan ocultas.
func PartitionSafeActions(s Snapshot, keys []string) SafeActions {
	resolved := Resolve(s)
	var sa SafeActions
	for _, key := range keys {
		eff, ok := resolved[key]
		switch {
		case ok && eff.Granted:
			sa.Allowed = append(sa.Allowed, key)
		case ok && eff.Source == SourceModuleGate:
			sa.Disabled = append(sa.Disabled, key)
		default:
			sa.Hidden = append(sa.Hidden, key)
		}
	}
	return sa
}
