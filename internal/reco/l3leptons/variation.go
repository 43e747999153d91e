package l3leptons

// BuildVariedElectronCollection returns a new collection in which every
// electron is replaced by variation(electron). Other leptons are shared with
// c, and neither c nor its electrons are modified.
func (c *Collection) BuildVariedElectronCollection(variation func(*Electron) *Electron) *Collection {
	varied := make([]Lepton, 0, c.Len())
	for _, l := range c.All() {
		if el, ok := l.(*Electron); ok {
			varied = append(varied, variation(el))
			continue
		}
		varied = append(varied, l)
	}
	return NewCollection(varied...)
}

// ElectronScaleUpCollection shifts every electron up in energy scale.
func (c *Collection) ElectronScaleUpCollection() *Collection {
	return c.BuildVariedElectronCollection((*Electron).EnergyScaleUp)
}

// ElectronScaleDownCollection shifts every electron down in energy scale.
func (c *Collection) ElectronScaleDownCollection() *Collection {
	return c.BuildVariedElectronCollection((*Electron).EnergyScaleDown)
}

// ElectronResolutionUpCollection replaces every electron by its
// resolution-up variant.
func (c *Collection) ElectronResolutionUpCollection() *Collection {
	return c.BuildVariedElectronCollection((*Electron).EnergyResolutionUp)
}

// ElectronResolutionDownCollection replaces every electron by its
// resolution-down variant.
func (c *Collection) ElectronResolutionDownCollection() *Collection {
	return c.BuildVariedElectronCollection((*Electron).EnergyResolutionDown)
}

// BuildConeCorrectedCollection returns a new collection where every
// fakeable-but-not-tight light lepton is replaced by a copy whose momentum
// is scaled to its cone-corrected pt. Leptons that need no correction are
// shared with c.
func (c *Collection) BuildConeCorrectedCollection() *Collection {
	corrected := make([]Lepton, 0, c.Len())
	for _, l := range c.All() {
		corrected = append(corrected, applyConeCorrection(l))
	}
	return NewCollection(corrected...)
}

func applyConeCorrection(l Lepton) Lepton {
	if l.Pt() <= 0 {
		return l
	}
	factor := l.ConeCorrectedPt() / l.Pt()
	if factor == 1 {
		return l
	}
	corrected := l.withObject(l.Object().Scaled(factor))
	if m, ok := corrected.(interface{ markConeCorrected() }); ok {
		m.markConeCorrected()
	}
	return corrected
}
