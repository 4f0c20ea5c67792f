package directory

// Specialist is immutable reference data, loaded once at startup.
type Specialist struct {
	Name         string `yaml:"name"`
	Specialty    string `yaml:"specialty"`
	Phone        string `yaml:"phone"`
	Email        string `yaml:"email"`
	WorkingHours string `yaml:"working_hours"`
	Location     string `yaml:"location"`
}

type specialistsFile struct {
	Specialists []Specialist `yaml:"specialists"`
}
